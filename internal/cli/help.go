package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/genqa/internal/ui/pretty"
)

// helpStyles is the style set for rendered command help.
type helpStyles struct {
	heading    lipgloss.Style
	command    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	flagType   lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{
			heading:    plain,
			command:    plain,
			subcommand: plain,
			flag:       plain,
			flagType:   plain,
		}
	}
	return helpStyles{
		heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		subcommand: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		flagType:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// usageTemplate covers the sections the genqa command tree actually
// produces: usage lines, the subcommand list, and local/inherited
// flags. Examples live inside each command's Long text.
const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flagBlock .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flagBlock .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}` + usageTemplate

// HelpFormatter renders styled help output for the command tree.
type HelpFormatter struct {
	styles    helpStyles
	usageTmpl *template.Template
	helpTmpl  *template.Template
}

// NewHelpFormatter creates a help formatter for the given color mode,
// probing writer for terminal capability in auto mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	h := &HelpFormatter{styles: newHelpStyles(pretty.IsColorEnabled(colorMode, writer))}

	funcs := template.FuncMap{
		"heading":    h.styles.heading.Render,
		"command":    h.styles.command.Render,
		"subcommand": h.styles.subcommand.Render,
		"flagBlock":  h.flagBlock,
		"rpad":       rpad,
		"trimRight":  trimRight,
	}
	h.usageTmpl = template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	h.helpTmpl = template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))
	return h
}

// ApplyToCommand installs the styled templates on cmd; cobra inherits
// help and usage functions down the subcommand tree.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.usageTmpl.Execute(c.OutOrStdout(), c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.helpTmpl.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// flagBlock re-styles the pflag usage block line by line.
func (h *HelpFormatter) flagBlock(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine colors the flag names and type of one usage line,
// leaving the description text alone. Wrapped description continuation
// lines pass through untouched.
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, "-") {
		return line
	}
	indent := line[:len(line)-len(trimmed)]

	gap := flagFieldEnd(trimmed)
	if gap < 0 {
		return line
	}
	head := trimmed[:gap]
	desc := strings.TrimLeft(trimmed[gap:], " ")

	var b strings.Builder
	b.WriteString(indent)
	for i, token := range strings.Fields(head) {
		if i > 0 {
			b.WriteByte(' ')
		}
		name, hadComma := strings.CutSuffix(token, ",")
		if strings.HasPrefix(name, "-") {
			b.WriteString(h.styles.flag.Render(name))
		} else {
			b.WriteString(h.styles.flagType.Render(name))
		}
		if hadComma {
			b.WriteByte(',')
		}
	}
	b.WriteString("   ")
	b.WriteString(desc)
	return b.String()
}

// flagFieldEnd finds the start of the first run of two or more spaces,
// the boundary pflag puts between the flag field and its description.
func flagFieldEnd(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == ' ' && s[i+1] == ' ' {
			return i
		}
	}
	return -1
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimRight(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
