package submissions

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// emptyCell is what a missing answer renders as.
const emptyCell = "—"

// Column is one header of the review table. Fixed columns are driven by a
// role binding; dynamic columns carry the field id they display.
type Column struct {
	Title   string
	Role    Role
	FieldID string
}

// Row is one rendered record: the id, the formatted cells in column order,
// the review verdict, and the reviewer's note.
type Row struct {
	ID            int64
	Cells         []string
	Status        Status
	ReviewComment string
}

// Table is the review view of a record set against the current layout.
type Table struct {
	Columns []Column
	Rows    []Row
}

// TableBuilder assembles review tables. The column set depends only on the
// field layout: role-bound fields collapse into fixed columns, everything
// else gets a dynamic column titled with its label, and no field appears
// twice.
type TableBuilder struct {
	resolver  *Resolver
	formatter *Formatter
	bindings  Bindings
}

// NewTableBuilder prepares a builder for one field layout.
func NewTableBuilder(fields []schema.Field, formatter *Formatter) *TableBuilder {
	if formatter == nil {
		formatter = NewFormatter(nil)
	}
	return &TableBuilder{
		resolver:  NewResolver(fields),
		formatter: formatter,
		bindings:  BindRoles(fields),
	}
}

// Bindings exposes the role assignments the builder derived.
func (b *TableBuilder) Bindings() Bindings {
	return b.bindings
}

// Columns computes the header. Start and end merge their date and time
// roles into one column each; a fixed column only appears when some field
// fills its role.
func (b *TableBuilder) Columns() []Column {
	cols := []Column{{Title: "ID"}}
	appendRole := func(title string, role Role) {
		if b.bindings[role] != "" {
			cols = append(cols, Column{Title: title, Role: role})
		}
	}
	appendRole("姓名", RoleName)
	appendRole("电话", RolePhone)
	appendRole("邮箱", RoleEmail)
	appendRole("团体", RoleGroup)
	appendRole("活动名", RoleEvent)
	if b.bindings[RoleStartDate] != "" || b.bindings[RoleStartTime] != "" {
		cols = append(cols, Column{Title: "开始", Role: RoleStartDate})
	}
	if b.bindings[RoleEndDate] != "" || b.bindings[RoleEndTime] != "" {
		cols = append(cols, Column{Title: "结束", Role: RoleEndDate})
	}
	appendRole("人数", RolePeople)

	bound := b.bindings.BoundIDs()
	for _, f := range b.resolver.Fields() {
		if bound[f.ID] {
			continue
		}
		title := schema.LabelText(f.LabelHTML)
		if title == "" {
			title = "字段" + f.ID
		}
		cols = append(cols, Column{Title: title, FieldID: f.ID})
	}

	cols = append(cols, Column{Title: "状态"})
	return cols
}

// Build renders every record against the computed columns.
func (b *TableBuilder) Build(records []Record) Table {
	cols := b.Columns()
	table := Table{Columns: cols, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		table.Rows = append(table.Rows, b.row(cols, rec))
	}
	return table
}

func (b *TableBuilder) row(cols []Column, rec Record) Row {
	row := Row{
		ID:            rec.ID,
		Status:        rec.Status,
		ReviewComment: rec.ReviewComment,
		Cells:         make([]string, 0, len(cols)),
	}
	for _, col := range cols {
		switch {
		case col.Title == "ID":
			row.Cells = append(row.Cells, strconv.FormatInt(rec.ID, 10))
		case col.Title == "状态":
			row.Cells = append(row.Cells, string(statusOrPending(rec.Status)))
		case col.Role == RoleStartDate:
			row.Cells = append(row.Cells, orEmpty(b.joined(rec, RoleStartDate, RoleStartTime)))
		case col.Role == RoleEndDate:
			row.Cells = append(row.Cells, orEmpty(b.joined(rec, RoleEndDate, RoleEndTime)))
		case col.Role != "":
			row.Cells = append(row.Cells, orEmpty(b.cell(rec, b.bindings[col.Role])))
		default:
			row.Cells = append(row.Cells, orEmpty(b.cell(rec, col.FieldID)))
		}
	}
	return row
}

func (b *TableBuilder) cell(rec Record, fieldID string) string {
	if fieldID == "" {
		return ""
	}
	field, ok := b.resolver.FieldByID(fieldID)
	if !ok {
		return ""
	}
	return b.formatter.Format(b.resolver.ValueFor(rec.Data, field))
}

// joined renders a date role and its time role as one space-separated cell.
func (b *TableBuilder) joined(rec Record, roles ...Role) string {
	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		if out := b.cell(rec, b.bindings[role]); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, " ")
}

func statusOrPending(s Status) Status {
	switch s {
	case StatusApproved, StatusRejected:
		return s
	default:
		return StatusPending
	}
}

func orEmpty(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}
