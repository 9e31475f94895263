// Package summarize turns extracted homepage text into a lead summary using
// an LLM backend and a tone or industry directive.
package summarize

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultDirective is used when no tone is selected.
const DefaultDirective = "default"

// ErrUnknownDirective is returned by Catalog.Get for a name not in the catalog.
var ErrUnknownDirective = eris.New("summarize: unknown tone or template")

// Kind groups directives for display.
type Kind string

const (
	KindTone     Kind = "tone"
	KindIndustry Kind = "industry"
)

// DefaultSystem is the system instruction sent when a directive sets none.
const DefaultSystem = "You write short, factual company summaries for a sales lead list. " +
	"Use only the homepage content you are given and reply with the summary alone."

// Directive controls the register and structure of the generated summary.
// Template is a text/template rendered with {{.Content}}.
type Directive struct {
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label" json:"label"`
	Kind     Kind   `yaml:"kind" json:"kind"`
	System   string `yaml:"system" json:"-"`
	Template string `yaml:"template" json:"-"`
}

// Instruction returns the directive's system instruction.
func (d Directive) Instruction() string {
	if s := strings.TrimSpace(d.System); s != "" {
		return s
	}
	return DefaultSystem
}

// promptData is the template input.
type promptData struct {
	Content string
}

// Render builds the LLM prompt for the given extracted content.
func Render(d Directive, content string) (string, error) {
	tmpl, err := template.New(d.Name).Option("missingkey=error").Parse(d.Template)
	if err != nil {
		return "", eris.Wrapf(err, "summarize: parse template %s", d.Name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Content: content}); err != nil {
		return "", eris.Wrapf(err, "summarize: render template %s", d.Name)
	}
	return buf.String(), nil
}

var builtins = []Directive{
	{
		Name:     DefaultDirective,
		Label:    "Default",
		Kind:     KindTone,
		Template: "Summarize what this SaaS company does based on the following homepage content:\n\n{{.Content}}",
	},
	{
		Name:  "concise",
		Label: "Concise",
		Kind:  KindTone,
		Template: "Summarize in at most two sentences what this company does and who it serves, " +
			"based on the following homepage content. Use plain, factual language.\n\n{{.Content}}",
	},
	{
		Name:  "conversational",
		Label: "Conversational",
		Kind:  KindTone,
		Template: "Explain what this company does as if you were telling a colleague about it over coffee. " +
			"Keep it friendly and under 80 words. Base it only on the following homepage content:\n\n{{.Content}}",
	},
	{
		Name:  "salesy",
		Label: "Salesy",
		Kind:  KindTone,
		Template: "Write a short, upbeat summary of this company that a sales rep could paste into an outreach email. " +
			"Lead with the problem the company solves. Base it only on the following homepage content:\n\n{{.Content}}",
	},
	{
		Name:  "technical",
		Label: "Technical",
		Kind:  KindTone,
		Template: "Describe this company's product in technical terms: what it is, how it is delivered " +
			"(SaaS, API, on-prem), and any integrations or platforms mentioned. " +
			"Base it only on the following homepage content:\n\n{{.Content}}",
	},
	{
		Name:  "saas",
		Label: "SaaS",
		Kind:  KindIndustry,
		Template: "This is a SaaS company. From the homepage content below, summarize the product, " +
			"the target customer segment, and the pricing model if stated. Answer in 3 short bullet points.\n\n{{.Content}}",
	},
	{
		Name:  "ecommerce",
		Label: "E-commerce",
		Kind:  KindIndustry,
		Template: "This is an e-commerce business. From the homepage content below, summarize what it sells, " +
			"its product categories, and whether it sells direct-to-consumer or wholesale.\n\n{{.Content}}",
	},
	{
		Name:  "fintech",
		Label: "Fintech",
		Kind:  KindIndustry,
		Template: "This is a financial technology company. From the homepage content below, summarize the financial " +
			"product, who uses it, and any regulatory or compliance claims made.\n\n{{.Content}}",
	},
	{
		Name:  "healthcare",
		Label: "Healthcare",
		Kind:  KindIndustry,
		Template: "This is a healthcare company. From the homepage content below, summarize the services or products offered, " +
			"the patient or provider audience, and any certifications mentioned.\n\n{{.Content}}",
	},
	{
		Name:  "agency",
		Label: "Agency / Services",
		Kind:  KindIndustry,
		Template: "This is a services agency. From the homepage content below, summarize the services offered, " +
			"the industries it serves, and any notable clients named.\n\n{{.Content}}",
	},
}

// Catalog is the closed set of directives available for a run.
type Catalog struct {
	order  []string
	byName map[string]Directive
}

// NewCatalog builds a catalog from directives; later entries replace earlier
// ones with the same name while keeping their original position.
func NewCatalog(directives ...Directive) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Directive, len(directives))}
	for _, d := range directives {
		if err := c.add(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Builtin returns the catalog of built-in tones and industry templates.
func Builtin() *Catalog {
	c, err := NewCatalog(builtins...)
	if err != nil {
		panic(err) // built-ins are covered by tests
	}
	return c
}

func (c *Catalog) add(d Directive) error {
	d.Name = strings.ToLower(strings.TrimSpace(d.Name))
	if d.Name == "" {
		return eris.New("summarize: directive name is required")
	}
	if d.Kind == "" {
		d.Kind = KindTone
	}
	if d.Label == "" {
		d.Label = d.Name
	}
	const marker = "\x00content\x00"
	out, err := Render(d, marker)
	if err != nil {
		return err
	}
	if !strings.Contains(out, marker) {
		return eris.Errorf("summarize: directive %s does not reference {{.Content}}", d.Name)
	}
	if _, ok := c.byName[d.Name]; !ok {
		c.order = append(c.order, d.Name)
	}
	c.byName[d.Name] = d
	return nil
}

// Get looks up a directive by name, case-insensitively. An empty name
// selects the default directive.
func (c *Catalog) Get(name string) (Directive, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultDirective
	}
	d, ok := c.byName[name]
	if !ok {
		return Directive{}, eris.Wrapf(ErrUnknownDirective, "tone %q", name)
	}
	return d, nil
}

// List returns all directives in catalog order.
func (c *Catalog) List() []Directive {
	out := make([]Directive, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// Names returns directive names in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// LoadCatalog reads extra directives from a YAML file and merges them over
// the built-ins. An empty path returns the built-ins.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "summarize: read templates %s", path)
	}

	var file struct {
		Directives []Directive `yaml:"directives"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "summarize: parse templates")
	}

	return NewCatalog(append(append([]Directive(nil), builtins...), file.Directives...)...)
}
