package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/posture-atlas/pkg/models/domain"
)

// Console prints workbook sheets to the terminal in plain text, used in
// debug mode to mirror what goes into the spreadsheet.
type Console struct {
	writer io.Writer
}

// NewConsole creates a console printer.
func NewConsole(writer io.Writer) *Console {
	if writer == nil {
		writer = os.Stdout
	}
	return &Console{writer: writer}
}

func (c *Console) Handle(wb *domain.Workbook) error {
	funcMap := template.FuncMap{
		"formatRow": func(row domain.Row) string {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = fmt.Sprint(cell)
			}
			return strings.TrimRight(strings.Join(cells, "\t"), "\t")
		},
	}

	tmpl := `{{range .Sheets}}
=== {{.Name}} ===
{{range .Rows}}{{formatRow .}}
{{end}}{{end}}`

	t, err := template.New("workbook").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, wb)
}
