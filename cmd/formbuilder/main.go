package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/persist"
	"github.com/goliatone/go-formbuilder/pkg/submissions"
)

type fileConfig struct {
	Endpoint  string `yaml:"endpoint"`
	DraftsDir string `yaml:"drafts_dir"`
	SiteName  string `yaml:"site_name"`
	FormName  string `yaml:"form_name"`
	FormDesc  string `yaml:"form_desc"`
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	schemaPath := flag.String("schema", "", "form schema JSON to load")
	endpoint := flag.String("endpoint", "", "service save endpoint URL")
	site := flag.String("site", "", "site name")
	name := flag.String("name", "", "form name")
	action := flag.String("action", "", "preview | export | save | submissions")
	output := flag.String("output", "", "output file (stdout if empty)")
	verbose := flag.Bool("verbose", false, "verbose logging")
	flag.Parse()

	logger, err := buildLogger(*verbose)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg := loadConfig(*configPath)
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *site != "" {
		cfg.SiteName = *site
	}
	if *name != "" {
		cfg.FormName = *name
	}

	options := []formbuilder.Option{formbuilder.WithLogger(logger)}
	if cfg.Endpoint != "" {
		options = append(options, formbuilder.WithEndpoint(cfg.Endpoint))
	}
	if cfg.DraftsDir != "" {
		store, err := persist.NewFileStore(cfg.DraftsDir)
		if err != nil {
			log.Fatalf("open drafts dir: %v", err)
		}
		options = append(options, formbuilder.WithDraftStore(store))
	}
	if *schemaPath != "" {
		raw, err := os.ReadFile(*schemaPath)
		if err != nil {
			log.Fatalf("read schema: %v", err)
		}
		options = append(options, formbuilder.WithInitialJSON(raw))
	}

	builder, err := formbuilder.New(options...)
	if err != nil {
		log.Fatalf("init builder: %v", err)
	}
	if cfg.SiteName != "" {
		builder.SetSiteName(cfg.SiteName)
		builder.RestoreDraft()
	}
	builder.SetFormName(cfg.FormName)
	builder.SetFormDescription(cfg.FormDesc)

	act := strings.TrimSpace(*action)
	if act == "" {
		if err := survey.AskOne(&survey.Select{
			Message: "What do you want to do?",
			Options: []string{"preview", "export", "save", "submissions"},
			Default: "preview",
		}, &act); err != nil {
			log.Fatalf("prompt: %v", err)
		}
	}

	ctx := context.Background()
	switch act {
	case "preview":
		runPreview(builder, *output)
	case "export":
		runExport(builder, cfg, *output)
	case "save":
		runSave(ctx, builder, cfg, logger)
	case "submissions":
		runSubmissions(ctx, builder, cfg)
	default:
		log.Fatalf("unknown action %q", act)
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig(path string) fileConfig {
	var cfg fileConfig
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}
	return cfg
}

func runPreview(builder *formbuilder.Builder, output string) {
	html, err := builder.PreviewHTML()
	if err != nil {
		log.Fatalf("render preview: %v", err)
	}
	emit([]byte(html), output, "Preview written to %s\n")
}

func runExport(builder *formbuilder.Builder, cfg fileConfig, output string) {
	site := requireSite(cfg.SiteName)
	out, err := builder.ExportOpenAPI(openapi.Meta{
		FormName: cfg.FormName,
		SiteName: site,
		FormDesc: cfg.FormDesc,
	})
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	emit(out, output, "OpenAPI document written to %s\n")
}

func runSave(ctx context.Context, builder *formbuilder.Builder, cfg fileConfig, logger *zap.Logger) {
	site := requireSite(cfg.SiteName)
	builder.SetSiteName(site)

	confirmed := false
	if err := survey.AskOne(&survey.Confirm{
		Message: fmt.Sprintf("Save form to site %q?", site),
		Default: true,
	}, &confirmed); err != nil {
		log.Fatalf("prompt: %v", err)
	}
	if !confirmed {
		builder.NoteClick("取消")
		fmt.Println("Aborted.")
		return
	}

	builder.NoteClick("保存表单")
	result, err := builder.Save(ctx)
	if err != nil {
		log.Fatalf("save: %v", err)
	}
	logger.Info("form saved", zap.String("site", result.SiteName))
	if confirmation, ok := builder.Confirmation(); ok {
		fmt.Printf("Saved.\n  Public: %s\n  Admin:  %s\n", confirmation.PublicURL, confirmation.AdminURL)
	}
}

func runSubmissions(ctx context.Context, builder *formbuilder.Builder, cfg fileConfig) {
	site, ok := builder.EnsureSaved(ctx)
	if !ok {
		site = requireSite(cfg.SiteName)
	}
	if cfg.Endpoint == "" {
		log.Fatal("submissions need an endpoint")
	}
	base, err := url.Parse(cfg.Endpoint)
	if err != nil {
		log.Fatalf("parse endpoint: %v", err)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	client, err := submissions.NewClient(root.String(), site)
	if err != nil {
		log.Fatalf("submissions client: %v", err)
	}

	query := ""
	if err := survey.AskOne(&survey.Input{Message: "Filter (empty for all):"}, &query); err != nil {
		log.Fatalf("prompt: %v", err)
	}

	records, err := client.List(ctx, query)
	if err != nil {
		log.Fatalf("list submissions: %v", err)
	}

	table := submissions.NewTableBuilder(builder.Document().Fields, submissions.NewFormatter(root)).Build(records)
	printTable(table)
}

func printTable(table submissions.Table) {
	titles := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		titles[i] = col.Title
	}
	fmt.Println(strings.Join(titles, "\t"))
	for _, row := range table.Rows {
		fmt.Println(strings.Join(row.Cells, "\t"))
	}
	fmt.Printf("%d submissions\n", len(table.Rows))
}

func requireSite(current string) string {
	site := strings.TrimSpace(current)
	if site != "" {
		return site
	}
	if err := survey.AskOne(&survey.Input{Message: "Site name:"}, &site, survey.WithValidator(survey.Required)); err != nil {
		log.Fatalf("prompt: %v", err)
	}
	return strings.TrimSpace(site)
}

func emit(data []byte, output, doneMsg string) {
	if output == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf(doneMsg, output)
}
