package drawer

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/carlosphillips/cjworkbench/pkg/workbench/measure"
	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// DOTDrawer draws a pipeline snapshot as a DOT graph, one vertex per module.
type DOTDrawer struct {
	graph  graph.Graph[string, string]
	order  map[string]int
	labels map[string]string
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer() *DOTDrawer {
	return &DOTDrawer{
		graph:  graph.New(graph.StringHash, graph.Directed()),
		order:  make(map[string]int),
		labels: make(map[string]string),
	}
}

func vertexName(id model.ModuleID) string {
	return strconv.FormatInt(int64(id), 10)
}

// AddModule adds a module to the pipeline graph.
func (d *DOTDrawer) AddModule(m *model.Module, kindKey string) error {
	if kindKey == "" {
		kindKey = "unknown"
	}

	name := vertexName(m.ID)
	label := fmt.Sprintf("%s %s", name, kindKey)

	err := d.graph.AddVertex(name, graph.VertexAttribute("label", label), graph.VertexAttribute("shape", "box"))
	if err != nil {
		return errors.Wrapf(err, "unable to add module %d", m.ID)
	}

	d.order[name] = len(d.order)
	d.labels[name] = label

	return nil
}

// AddLink adds a link between two modules.
func (d *DOTDrawer) AddLink(from, to model.ModuleID) error {
	err := d.graph.AddEdge(vertexName(from), vertexName(to))
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %d to %d", from, to)
	}

	return nil
}

// Select highlights the selected module.
func (d *DOTDrawer) Select(id model.ModuleID) error {
	_, properties, err := d.graph.VertexWithProperties(vertexName(id))
	if err != nil {
		return errors.Wrapf(err, "unable to get module %d", id)
	}

	properties.Attributes["style"] = "bold"
	properties.Attributes["penwidth"] = "3"

	return nil
}

const maxRGB = 240

// AddMeasure colours every measured module from blue, the fastest, to red, the slowest.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	avgs := make(map[string]time.Duration)

	var minValue, maxValue time.Duration

	for name := range d.order {
		id, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid vertex %s", name)
		}

		mt := msr.GetMetric(measure.ModuleMetricName(model.ModuleID(id)))
		if mt == nil || mt.Total() == 0 {
			continue
		}

		avg := mt.AVGDuration()
		if len(avgs) == 0 || avg < minValue {
			minValue = avg
		}

		if len(avgs) == 0 || avg > maxValue {
			maxValue = avg
		}

		avgs[name] = avg
	}

	for name, avg := range avgs {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		properties.Attributes["color"] = colour.ToHEX().String()
		properties.Attributes["xlabel"] = avg.String()
	}

	return nil
}

// Draw writes the pipeline graph to w.
func (d *DOTDrawer) Draw(w io.Writer) error {
	desc, err := d.generateDOT()
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(w, desc)
}

// DrawPipeline draws p, with the latencies recorded in msr when it is not nil.
func DrawPipeline(w io.Writer, p *model.Pipeline, msr measure.Measure) error {
	d := NewDOTDrawer()

	for i := range p.Modules {
		m := &p.Modules[i]

		err := d.AddModule(m, p.KindKey(m))
		if err != nil {
			return err
		}

		if i > 0 {
			err = d.AddLink(p.Modules[i-1].ID, m.ID)
			if err != nil {
				return err
			}
		}
	}

	if p.SelectedModuleID != 0 {
		err := d.Select(p.SelectedModuleID)
		if err != nil {
			return err
		}
	}

	if msr != nil {
		err := d.AddMeasure(msr)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	return d.Draw(w)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

// generateDOT lists the modules in pipeline order so the output is stable.
func (d *DOTDrawer) generateDOT() (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"rankdir": "TB"},
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	adjacencyMap, err := d.graph.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}

	sort.Slice(vertices, func(i, j int) bool {
		return d.order[vertices[i]] < d.order[vertices[j]]
	})

	for _, vertex := range vertices {
		_, sourceProperties, err := d.graph.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))
		for k, v := range sourceProperties.Attributes {
			sourceAttributes[k] = v
		}

		htmlAttributes := make(map[string]string)

		if xlabel, ok := sourceAttributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, d.labels[vertex], xlabel)

			delete(sourceAttributes, "xlabel")
			delete(sourceAttributes, "label")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		})

		targets := make([]string, 0, len(adjacencyMap[vertex]))
		for target := range adjacencyMap[vertex] {
			targets = append(targets, target)
		}

		sort.Slice(targets, func(i, j int) bool {
			return d.order[targets[i]] < d.order[targets[j]]
		})

		for _, target := range targets {
			edge := adjacencyMap[vertex][target]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
