// Package dashboard renders the Grafana dashboards shipped with craneguard.
package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"craneguard/internal/telemetry"
)

//go:embed templates/*.tmpl
var templates embed.FS

// DatasourceEnv names the variable holding the GreptimeDB datasource uid.
const DatasourceEnv = "GREPTIMEDB_DATASOURCE_UID"

type tables struct {
	CraneState  string
	Collisions  string
	AlertEvents string
	SiteStatus  string
}

func currentTables() tables {
	return tables{
		CraneState:  telemetry.CraneStateTableName,
		Collisions:  telemetry.CollisionTableName,
		AlertEvents: telemetry.AlertEventTableName,
		SiteStatus:  telemetry.SiteStatusTableName,
	}
}

// Render executes every embedded template and writes the dashboards to
// outDir, named after the template without its .tmpl suffix.
func Render(outDir string) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	names, err := templates.ReadDir("templates")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	data := currentTables()
	for _, entry := range names {
		name := entry.Name()
		t, err := template.New(name).Funcs(funcMap).ParseFS(templates, path.Join("templates", name))
		if err != nil {
			return err
		}
		var sb strings.Builder
		if err := t.Execute(&sb, data); err != nil {
			return err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(name, ".tmpl"))
		if err := os.WriteFile(outPath, []byte(sb.String()), 0o644); err != nil {
			return err
		}
	}
	return nil
}
