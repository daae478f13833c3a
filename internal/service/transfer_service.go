package service

import (
	"bytes"
	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/internal/util"
	"campus_erp_backend/pkg/logger"
	"campus_erp_backend/pkg/monitoring"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TransferService owns the spreadsheet round trip: template generation, upload
// parsing with all-or-nothing persistence, and grid export.
type TransferService struct {
	Blueprints *repository.BlueprintRepository
	Subjects   *repository.SubjectRepository
	Students   *repository.StudentRepository
	Marks      *repository.MarkRepository
	Grid       *GridService
	Storage    *StorageService
}

func NewTransferService(blueprints *repository.BlueprintRepository, subjects *repository.SubjectRepository, students *repository.StudentRepository, marks *repository.MarkRepository, grid *GridService, storage *StorageService) *TransferService {
	return &TransferService{
		Blueprints: blueprints,
		Subjects:   subjects,
		Students:   students,
		Marks:      marks,
		Grid:       grid,
		Storage:    storage,
	}
}

// LayoutKind tags the template column shape.
type LayoutKind int

const (
	// LayoutStructured renders one column per sub-question.
	LayoutStructured LayoutKind = iota
	// LayoutFlat renders a single marks column for components without a
	// question breakdown (assignments, lab records).
	LayoutFlat
)

type TemplateColumn struct {
	SubQuestionID uint
	Label         string // display form, e.g. "Q1a"
	MaxMarks      float64
}

// TemplateLayout is the tagged choice between structured and flat sheets.
type TemplateLayout struct {
	Kind     LayoutKind
	Columns  []TemplateColumn // structured only
	MaxMarks float64          // flat only
}

func StructuredLayout(bp *model.CIEBlueprint) TemplateLayout {
	layout := TemplateLayout{Kind: LayoutStructured}
	for _, sub := range orderedSubQuestions(bp) {
		layout.Columns = append(layout.Columns, TemplateColumn{
			SubQuestionID: sub.Sub.ID,
			Label:         sub.Sub.DisplayLabel(sub.QuestionNo),
			MaxMarks:      sub.Sub.MaxMarks,
		})
	}
	return layout
}

func FlatLayout(maxMarks float64) TemplateLayout {
	return TemplateLayout{Kind: LayoutFlat, MaxMarks: maxMarks}
}

// Headers renders row 1 of the template.
func (l TemplateLayout) Headers() []string {
	headers := []string{"USN", "Name"}
	switch l.Kind {
	case LayoutFlat:
		headers = append(headers, fmt.Sprintf("Marks (Max: %g)", l.MaxMarks))
	default:
		for _, c := range l.Columns {
			headers = append(headers, fmt.Sprintf("%s (Max: %g)", c.Label, c.MaxMarks))
		}
	}
	return headers
}

const templateSheet = "Marks"

// GenerateTemplate emits the entry spreadsheet: headers from the blueprint,
// one pre-filled row per roster student, score cells blank.
func (s *TransferService) GenerateTemplate(subjectID uint, cieNumber int) ([]byte, string, error) {
	subject, bp, roster, err := s.loadExamContext(subjectID, cieNumber)
	if err != nil {
		return nil, "", err
	}

	layout := StructuredLayout(bp)

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", templateSheet)

	for col, header := range layout.Headers() {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(templateSheet, cell, header)
	}
	for i, st := range roster {
		row := i + 2
		usnCell, _ := excelize.CoordinatesToCellName(1, row)
		nameCell, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(templateSheet, usnCell, st.USN)
		f.SetCellValue(templateSheet, nameCell, st.Name)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_CIE%d_template.xlsx", subject.Code, cieNumber)
	return buf.Bytes(), filename, nil
}

type UploadResult struct {
	Success      bool  `json:"success"`
	CreatedCount int64 `json:"createdCount"`
	UpdatedCount int64 `json:"updatedCount"`
}

// header synonyms accepted case-insensitively for the fixed columns
var headerSynonyms = map[string]string{
	"usn":                    "usn",
	"usn number":             "usn",
	"usn no":                 "usn",
	"university seat number": "usn",
	"name":                   "name",
	"student name":           "name",
}

// normalizeHeader lowercases, trims and strips the "(Max: N)" annotation.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if i := strings.Index(h, "(max"); i >= 0 {
		h = strings.TrimSpace(h[:i])
	}
	return h
}

// ParseUpload validates the whole sheet before writing anything. Any row-level
// failure aborts with the full error list and zero writes; a clean sheet is
// persisted as one transactional batch.
func (s *TransferService) ParseUpload(subjectID uint, cieNumber int, data []byte, recordedBy uint) (*UploadResult, error) {
	subject, bp, roster, err := s.loadExamContext(subjectID, cieNumber)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, util.NewValidationError("file", "not a readable spreadsheet")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, util.NewValidationError("file", "could not read sheet: %v", err)
	}
	if len(rows) == 0 {
		return nil, util.NewValidationError("file", "spreadsheet is empty")
	}

	layout := StructuredLayout(bp)
	labelIndex := make(map[string]TemplateColumn, len(layout.Columns))
	for _, c := range layout.Columns {
		labelIndex[strings.ToLower(c.Label)] = c
	}

	usnCol := -1
	subCols := make(map[int]TemplateColumn)
	var subColOrder []int // sheet order, so row errors list left to right
	for idx, raw := range rows[0] {
		norm := normalizeHeader(raw)
		if headerSynonyms[norm] == "usn" {
			usnCol = idx
			continue
		}
		if tc, ok := labelIndex[norm]; ok {
			subCols[idx] = tc
			subColOrder = append(subColOrder, idx)
		}
	}
	if usnCol < 0 {
		return nil, util.NewValidationError("file", "missing USN column")
	}
	if len(subCols) == 0 {
		return nil, util.NewValidationError("file", "no columns match the blueprint sub-questions")
	}

	rosterUSNs := make(map[string]bool, len(roster))
	for _, st := range roster {
		rosterUSNs[strings.ToUpper(st.USN)] = true
	}

	type cellKey struct {
		subq uint
		usn  string
	}
	seen := make(map[cellKey]bool)
	var dupKeys []string
	bulkErr := &util.BulkValidationError{}
	var marks []model.InternalMark

	for ri, row := range rows[1:] {
		rowNo := ri + 2 // 1-based, after the header

		if rowIsBlank(row) {
			continue
		}

		usn := strings.ToUpper(strings.TrimSpace(cellAt(row, usnCol)))
		if usn == "" {
			bulkErr.Add(rowNo, "usn", "missing USN")
			continue
		}
		if !rosterUSNs[usn] {
			bulkErr.Add(rowNo, "usn", "USN %s is not on the roster for %s", usn, subject.Code)
			continue
		}

		for _, idx := range subColOrder {
			tc := subCols[idx]
			raw := strings.TrimSpace(cellAt(row, idx))
			if raw == "" {
				continue // blank cell means "not entered", never a zero write
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				bulkErr.Add(rowNo, tc.Label, "not a number: %q", raw)
				continue
			}
			if value < 0 || value > tc.MaxMarks {
				bulkErr.Add(rowNo, tc.Label, "out of range: max is %g", tc.MaxMarks)
				continue
			}

			key := cellKey{subq: tc.SubQuestionID, usn: usn}
			if seen[key] {
				dupKeys = append(dupKeys, fmt.Sprintf("%s/%s", tc.Label, usn))
				continue
			}
			seen[key] = true

			marks = append(marks, model.InternalMark{
				SubQuestionID: tc.SubQuestionID,
				StudentUSN:    usn,
				Value:         value,
				RecordedBy:    recordedBy,
			})
		}
	}

	if len(dupKeys) > 0 {
		return nil, &util.ConflictError{Message: "duplicate entries in upload", Keys: dupKeys}
	}
	if bulkErr.HasErrors() {
		monitoring.BulkUploadRows.WithLabelValues("rejected").Add(float64(len(bulkErr.Rows)))
		return nil, bulkErr
	}

	created, updated, err := s.Marks.BulkUpsert(marks)
	if err != nil {
		return nil, err
	}
	monitoring.BulkUploadRows.WithLabelValues("accepted").Add(float64(len(marks)))
	monitoring.MarkWrites.WithLabelValues("bulk").Add(float64(len(marks)))

	s.archive(subject.Code, cieNumber, data)

	return &UploadResult{Success: true, CreatedCount: created, UpdatedCount: updated}, nil
}

// archive keeps the original sheet for dispute resolution. Failure is logged,
// never surfaced, since the grades are already committed.
func (s *TransferService) archive(subjectCode string, cieNumber int, data []byte) {
	if s.Storage == nil {
		return
	}
	name := fmt.Sprintf("%s_cie%d_%s.xlsx", subjectCode, cieNumber, model.GenerateUUID())
	if _, err := s.Storage.ArchiveUpload(context.Background(), name, data); err != nil {
		logger.Log.Warn("upload archive failed", zap.String("file", name), zap.Error(err))
	}
}

// ExportGrid serializes the already-built grid to the requested format.
func (s *TransferService) ExportGrid(subjectID uint, cieNumber int, format string) ([]byte, string, string, error) {
	grid, err := s.Grid.BuildGrid(subjectID, cieNumber)
	if err != nil {
		return nil, "", "", err
	}
	subject, err := s.Subjects.FindByID(subjectID)
	if err != nil {
		return nil, "", "", err
	}

	base := fmt.Sprintf("%s_CIE%d_marks", subject.Code, cieNumber)

	switch strings.ToLower(format) {
	case "", "xlsx":
		data, err := exportXLSX(grid)
		return data, base + ".xlsx", spreadsheetContentType, err
	case "csv":
		data, err := exportCSV(grid)
		return data, base + ".csv", "text/csv", err
	case "pdf":
		data, err := exportPDF(grid, subject.Code)
		return data, base + ".pdf", "application/pdf", err
	default:
		return nil, "", "", util.NewValidationError("format", "unsupported format %q", format)
	}
}

func (g *Grid) rowRecord(row GridRow) []string {
	record := []string{row.StudentUSN, row.StudentName}
	for _, cell := range row.Marks {
		if cell.Value != nil {
			record = append(record, strconv.FormatFloat(*cell.Value, 'f', -1, 64))
		} else {
			record = append(record, "")
		}
	}
	for _, pb := range row.PartBests {
		record = append(record, strconv.FormatFloat(pb.Best, 'f', -1, 64))
	}
	record = append(record, strconv.Itoa(row.Total))
	return record
}

func exportXLSX(grid *Grid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", templateSheet)

	for col, header := range grid.Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(templateSheet, cell, header)
	}
	for i, row := range grid.Rows {
		for col, value := range grid.rowRecord(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(templateSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportCSV(grid *Grid) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(grid.Columns); err != nil {
		return nil, err
	}
	for _, row := range grid.Rows {
		if err := w.Write(grid.rowRecord(row)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(grid *Grid, subjectCode string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s - CIE %d Internal Marks", subjectCode, grid.CIENumber), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(grid.Columns))

	pdf.SetFont("Arial", "B", 8)
	for _, header := range grid.Columns {
		pdf.CellFormat(colWidth, 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range grid.Rows {
		for _, value := range grid.rowRecord(row) {
			pdf.CellFormat(colWidth, 6, value, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *TransferService) loadExamContext(subjectID uint, cieNumber int) (*model.Subject, *model.CIEBlueprint, []model.Student, error) {
	subject, err := s.Subjects.FindByID(subjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil, &util.NotFoundError{Resource: "subject", Key: strconv.Itoa(int(subjectID))}
		}
		return nil, nil, nil, err
	}

	bp, err := s.Blueprints.FindByKey(subjectID, cieNumber)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil, &util.NotFoundError{Resource: "blueprint"}
		}
		return nil, nil, nil, err
	}

	roster, err := s.Students.ListForSubject(subject)
	if err != nil {
		return nil, nil, nil, err
	}

	return subject, bp, roster, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowIsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
