package logbook

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table names used in the assembled Document.
const (
	TableStudent    = "student"
	TableWeek       = "week"
	TableDays       = "days"
	TableOperations = "operations"
	TableComments   = "comments"
	TableSignature  = "signature"
	TableDiagram    = "diagram"
)

const (
	logbookTitle      = "PRACTICAL TRAINING LOG – BOOK"
	mainJobHeading    = "Details Of the Main Job of the Week"
	diagramTitle      = "Detailed Diagram of the Main Job"
	NoDiagramText     = "No diagram available"
	signatureLine     = "........................"
	shortSignature    = "................"
	headerSpaceBefore = 0.1
)

// section appends one part of the logbook to doc.
type section func(doc Document, in Input) Document

// assembler owns the layout settings shared by all sections.
type assembler struct {
	institution  string
	college      string
	border       BorderStyle
	diagramWidth float64
	logger       *zap.Logger
}

func (a *assembler) sections() []section {
	return []section{
		a.frontMatter,
		a.studentInfo,
		a.weekInfo,
		a.days,
		a.operations,
		a.signOff,
		a.diagram,
	}
}

func (a *assembler) assemble(in Input) (Document, error) {
	if err := validate(in); err != nil {
		return Document{}, err
	}
	in = normalize(in)

	var doc Document
	for _, s := range a.sections() {
		doc = s(doc, in)
	}
	return doc, nil
}

// validate checks required weekdays and header fields before anything is
// rendered.
func validate(in Input) error {
	for _, day := range Weekdays {
		if _, ok := in.Days[day]; !ok {
			return &MissingDataError{Field: day}
		}
	}
	if strings.TrimSpace(in.Header.RegNo) == "" {
		return &MissingDataError{Field: "reg_no"}
	}
	if !ValidRegNo(in.Header.RegNo) {
		return &InvalidDataError{Field: "reg_no", Reason: "must not contain path separators or \"..\""}
	}
	if in.Header.WeekNo <= 0 {
		return &MissingDataError{Field: "week_no"}
	}
	return nil
}

func normalize(in Input) Input {
	upper := cases.Upper(language.Und)
	in.Header.Department = upper.String(in.Header.Department)
	in.Header.StudentName = upper.String(in.Header.StudentName)
	in.Header.Company = upper.String(in.Header.Company)
	return in
}

func (a *assembler) frontMatter(doc Document, in Input) Document {
	return doc.With(
		Heading{Text: a.institution, Level: 1, Align: AlignCenter},
		Heading{Text: a.college, Level: 2, Align: AlignCenter},
		Heading{Text: "DEPARTMENT OF " + in.Header.Department, Level: 2, Align: AlignCenter},
		Heading{Text: logbookTitle, Level: 2, Align: AlignCenter},
		Paragraph{},
	)
}

func (a *assembler) studentInfo(doc Document, in Input) Document {
	t := NewBorderedTable(TableStudent, 2, []float64{4, 2}, a.border)
	t.Cell(0, 0).Text = "STUDENT NAME: " + in.Header.StudentName
	t.Cell(0, 1).Text = "REG. NO: " + in.Header.RegNo
	company := t.Merge(1, 0, 1)
	company.Text = "COMPANY/INSTITUTION: " + in.Header.Company
	return doc.With(t)
}

func (a *assembler) weekInfo(doc Document, in Input) Document {
	t := NewBorderedTable(TableWeek, 1, []float64{1, 2.5, 2.5}, a.border)
	labels := []string{
		fmt.Sprintf("WEEK NO: %d", in.Header.WeekNo),
		"FROM: " + in.Header.FromDate,
		"TO: " + in.Header.ToDate,
	}
	for i, text := range labels {
		c := t.Cell(0, i)
		c.Text = text
		c.SpaceBefore = headerSpaceBefore
	}
	return doc.With(t)
}

func (a *assembler) days(doc Document, in Input) Document {
	t := NewBorderedTable(TableDays, len(Weekdays)+1, []float64{2, 4}, a.border)
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			c.VAlign = VAlignTop
		}
	}
	for i, text := range []string{"DAY / DATE", "ACTIVITY"} {
		c := t.Cell(0, i)
		c.Text = text
		c.Bold = true
		c.Align = AlignCenter
		c.SpaceBefore = headerSpaceBefore
	}
	for i, day := range Weekdays {
		entry := in.Days[day]
		dayCell := t.Cell(i+1, 0)
		dayCell.Text = day + "\n\n" + entry.Date
		dayCell.Align = AlignCenter
		t.Cell(i+1, 1).Text = entry.Activity
	}
	return doc.With(t, Paragraph{})
}

// OperationRows is the number of rows in the operations table for n
// operations: a header plus at least one body row.
func OperationRows(n int) int {
	return max(2, n+1)
}

func (a *assembler) operations(doc Document, in Input) Document {
	t := NewBorderedTable(TableOperations, OperationRows(len(in.Operations)), []float64{3, 3}, a.border)
	op := t.Cell(0, 0)
	op.Text = "Operation: "
	op.Bold = true
	tools := t.Cell(0, 1)
	tools.Text = "Machinery/Tools Used"
	tools.Bold = true
	tools.Align = AlignCenter
	for i, o := range in.Operations {
		t.Cell(i+1, 0).Text = o.Operation
		t.Cell(i+1, 1).Text = o.Machinery
	}
	return doc.With(Heading{Text: mainJobHeading, Level: 2}, t, Paragraph{})
}

func (a *assembler) signOff(doc Document, _ Input) Document {
	comments := NewBorderedTable(TableComments, 1, []float64{2, 4}, a.border)
	comments.Cell(0, 0).Text = "Comments from Industrial Supervisor"
	comments.Cell(0, 1).Text = "\n"

	sign := NewBorderedTable(TableSignature, 1, []float64{3, 3}, a.border)
	sign.Cell(0, 0).Text = "\nName: " + signatureLine
	sign.Cell(0, 1).Text = "\nSignature: " + signatureLine

	return doc.With(comments, sign, PageBreak{})
}

func (a *assembler) diagram(doc Document, in Input) Document {
	t := NewBorderedTable(TableDiagram, 3, []float64{1.5, 1.5, 1.5, 1.5}, a.border)

	title := t.Merge(0, 0, 3)
	title.Text = diagramTitle

	body := t.Merge(1, 0, 3)
	body.Align = AlignCenter
	if a.diagramExists(in.DiagramPath) {
		body.Image = &Image{Path: in.DiagramPath, Width: a.diagramWidth}
	} else {
		body.Text = NoDiagramText
	}

	for i, label := range []string{"Drawn by", "Date", "Checked by", "Date"} {
		t.Cell(2, i).Text = label + ": \n\n" + shortSignature
	}
	return doc.With(Paragraph{Align: AlignCenter}, t)
}

func (a *assembler) diagramExists(path string) bool {
	if path == "" {
		a.logger.Info("No diagram supplied, using placeholder")
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		a.logger.Info("Diagram not found, using placeholder", zap.String("path", path))
		return false
	}
	return true
}
