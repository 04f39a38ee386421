package report

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	grayText    = &props.Color{Red: 80, Green: 80, Blue: 80}
	sectionFill = &props.Color{Red: 33, Green: 37, Blue: 41}
	stripeFill  = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// GeneratePDF renders doc as an A4 PDF and returns the raw bytes.
func GeneratePDF(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addPDFHeader(m, doc)
	for _, s := range doc.Sections {
		addPDFSection(m, s)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return out.GetBytes(), nil
}

func addPDFHeader(m core.Maroto, doc Document) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(doc.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	client := ""
	if doc.Client != "" {
		client = "Cliente: " + doc.Client
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(client, props.Text{Size: 9, Align: align.Left, Color: grayText}),
			),
			col.New(6).Add(
				text.New("Gerado em "+doc.GeneratedAt, props.Text{Size: 9, Align: align.Right, Color: grayText}),
			),
		),
	)

	m.AddRows(row.New(4))
}

func addPDFSection(m core.Maroto, s Section) {
	header := props.Text{
		Size:  10,
		Style: fontstyle.Bold,
		Align: align.Left,
		Left:  2,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New(s.Title, header)),
		).WithStyle(&props.Cell{BackgroundColor: sectionFill}),
	)

	label := props.Text{Size: 9, Align: align.Left, Left: 2}
	value := props.Text{Size: 9, Align: align.Right, Right: 2}
	for i, l := range s.Lines {
		r := row.New(6).Add(
			col.New(8).Add(text.New(l.Label, label)),
			col.New(4).Add(text.New(l.Value, value)),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: stripeFill})
		}
		m.AddRows(r)
	}

	m.AddRows(row.New(4))
}
