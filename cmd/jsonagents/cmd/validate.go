package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/json-agents/jsonagents-go/internal/service"
)

var (
	validateStrict bool
	validateSchema string
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir> [file|dir...]",
	Short: "Validate manifest files",
	Long: `Validate one or more JSON Agents manifest files.

Directories are expanded to the manifest files they contain (.json, .yaml,
.yml). Each file is checked against the manifest schema, then every
embedded ajson:// URI and policy expression is validated.

Exit status is 1 when any file fails validation.

Examples:
  jsonagents validate agent.json
  jsonagents validate --strict manifests/
  jsonagents validate --schema custom-schema.json agent.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "path to a JSON Schema file (default: bundled schema)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if validateSchema != "" {
		cfg.Schema = validateSchema
	}
	strict := validateStrict || cfg.Strict

	files, err := expandManifestPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no manifest files found in %s", strings.Join(args, ", "))
	}

	svc, cleanup, err := buildManifestService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	var reports []service.Report
	failed := 0
	for _, file := range files {
		report := svc.ValidateFile(ctx, file, strict)
		reports = append(reports, report)
		if !report.Valid {
			failed++
		}
	}

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printReport(r)
		}
		fmt.Printf("\n%d file(s) checked, %d failed\n", len(reports), failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(reports))
	}
	return nil
}

// expandManifestPaths resolves each argument to manifest files. Directory
// arguments are expanded non-recursively; file arguments are taken as-is.
func expandManifestPaths(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".json", ".yaml", ".yml":
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func printReport(r service.Report) {
	status := "PASS"
	if !r.Valid {
		status = "FAIL"
	}
	fmt.Printf("%s  %s\n", status, r.File)
	for _, e := range r.Errors {
		fmt.Printf("  error:   %s\n", e)
	}
	for _, w := range r.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}
