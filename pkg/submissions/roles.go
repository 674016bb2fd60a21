package submissions

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Role names a well-known column in the review table. Roles are inferred
// from question labels, never from ids, so they survive form rebuilds.
type Role string

const (
	RoleName      Role = "name"
	RolePhone     Role = "phone"
	RoleEmail     Role = "email"
	RoleGroup     Role = "group"
	RoleEvent     Role = "event"
	RoleStartDate Role = "start_date"
	RoleStartTime Role = "start_time"
	RoleEndDate   Role = "end_date"
	RoleEndTime   Role = "end_time"
	RolePeople    Role = "people"
)

// roleKeywords maps each role to the label fragments that claim it. The
// date/time roles deliberately use narrow phrases so a generic "时间" question
// is not mistaken for a schedule boundary.
var roleKeywords = map[Role][]string{
	RoleName:      {"姓名", "名字", "称呼", "name", "Name"},
	RolePhone:     {"电话", "手机", "手机号", "联系电话", "phone", "tel", "联系方式", "電話"},
	RoleEmail:     {"邮箱", "电子邮箱", "email", "Email", "郵箱"},
	RoleGroup:     {"团体", "团队", "单位", "公司", "学校", "组织", "小组", "group"},
	RoleEvent:     {"活动名", "活动名称", "活动", "课程", "会议", "event"},
	RoleStartDate: {"开始日期", "起始日期", "start date"},
	RoleStartTime: {"开始时间", "start time"},
	RoleEndDate:   {"结束日期", "截止日期", "end date"},
	RoleEndTime:   {"结束时间", "end time"},
	RolePeople:    {"人数", "参与人数", "报名人数", "人数（人）", "participants"},
}

// Bindings maps roles to the field ids that fill them. A field may carry
// more than one role; fields carrying any role are excluded from the
// dynamic column set.
type Bindings map[Role]string

// BindRoles scans labels in field order and assigns each role to the first
// field whose plain label text contains one of its keywords.
func BindRoles(fields []schema.Field) Bindings {
	bound := make(Bindings)
	for role, keywords := range roleKeywords {
		for _, f := range fields {
			label := schema.LabelText(f.LabelHTML)
			if label == "" {
				continue
			}
			if containsAny(label, keywords) {
				bound[role] = f.ID
				break
			}
		}
	}
	return bound
}

// BoundIDs returns the set of field ids claimed by at least one role.
func (b Bindings) BoundIDs() map[string]bool {
	ids := make(map[string]bool, len(b))
	for _, id := range b {
		if id != "" {
			ids[id] = true
		}
	}
	return ids
}

func containsAny(label string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
