// Package importer provides CSV and Excel import of pool lists for batch quoting.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/FoilCut/internal/model"
	"github.com/piwi3910/FoilCut/internal/project"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Jobs     []project.JobFile
	Errors   []string
	Warnings []string
}

// Column roles recognised in a header row.
const (
	ColName          = "name"
	ColLength        = "length"
	ColWidth         = "width"
	ColDepth         = "depth"
	ColSlopeDepth    = "slope_depth"
	ColSteps         = "steps"
	ColStepDepth     = "step_depth"
	ColStairsWidth   = "stairs_width"
	ColPaddlingWidth = "paddling_width"
	ColPaddlingLen   = "paddling_length"
	ColPaddlingDepth = "paddling_depth"
	ColDividerOffset = "divider_offset"
	ColMain          = "main_material"
	ColStructural    = "structural_material"
	ColObjective     = "objective"
)

// ColumnMapping maps column roles to their indices in the data. Roles that are
// absent map to -1.
type ColumnMapping map[string]int

// Index returns the column index of a role, or -1.
func (m ColumnMapping) Index(role string) int {
	if i, ok := m[role]; ok {
		return i
	}
	return -1
}

// headerAliases maps canonical column roles to their accepted aliases (all lowercase).
// Roles are matched in order, so an alias is claimed by the first role listing it.
var headerAliases = []struct {
	role    string
	aliases []string
}{
	{ColName, []string{"name", "pool", "label", "customer", "reference", "ref"}},
	{ColLength, []string{"length", "len", "l", "pool length"}},
	{ColWidth, []string{"width", "w", "pool width"}},
	{ColDepth, []string{"depth", "d", "shallow depth", "pool depth"}},
	{ColSlopeDepth, []string{"slope depth", "slope_depth", "deep end", "max depth"}},
	{ColSteps, []string{"steps", "step count", "step_count", "stairs"}},
	{ColStepDepth, []string{"step depth", "step_depth", "tread"}},
	{ColStairsWidth, []string{"stairs width", "stairs_width", "stair width"}},
	{ColPaddlingWidth, []string{"paddling width", "paddling_width", "wading width"}},
	{ColPaddlingLen, []string{"paddling length", "paddling_length", "wading length"}},
	{ColPaddlingDepth, []string{"paddling depth", "paddling_depth", "wading depth"}},
	{ColDividerOffset, []string{"divider offset", "divider_offset", "dividing wall", "dividing_wall_offset"}},
	{ColMain, []string{"material", "main material", "main_material", "liner", "foil"}},
	{ColStructural, []string{"structural material", "structural_material", "anti-slip", "structural"}},
	{ColObjective, []string{"objective", "optimize", "goal"}},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (name, length, width, depth) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{}

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
	roles:
		for _, h := range headerAliases {
			for _, alias := range h.aliases {
				if normalized != alias {
					continue
				}
				if _, taken := mapping[h.role]; !taken {
					mapping[h.role] = i
				}
				break roles
			}
		}
	}

	if len(mapping) == 0 {
		return ColumnMapping{ColName: 0, ColLength: 1, ColWidth: 2, ColDepth: 3}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber accepts both decimal points and decimal commas.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// rowParser collects the first error while reading the cells of one row.
type rowParser struct {
	row      []string
	mapping  ColumnMapping
	rowLabel string
	err      string
}

func (p *rowParser) number(role string, required bool) float64 {
	if p.err != "" {
		return 0
	}
	s := getCell(p.row, p.mapping.Index(role))
	if s == "" {
		if required {
			p.err = fmt.Sprintf("%s: Missing %s value", p.rowLabel, role)
		}
		return 0
	}
	v, err := parseNumber(s)
	if err != nil {
		p.err = fmt.Sprintf("%s: Invalid %s '%s'", p.rowLabel, role, s)
		return 0
	}
	if v < 0 {
		p.err = fmt.Sprintf("%s: %s must not be negative", p.rowLabel, role)
		return 0
	}
	return v
}

// parseRow extracts a job from a row using the given column mapping.
// Returns the job, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, jobCount int) (project.JobFile, string, string) {
	p := &rowParser{row: row, mapping: mapping, rowLabel: rowLabel}

	jf := project.JobFile{
		Name:               getCell(row, mapping.Index(ColName)),
		MainMaterial:       getCell(row, mapping.Index(ColMain)),
		StructuralMaterial: getCell(row, mapping.Index(ColStructural)),
	}
	if jf.Name == "" {
		jf.Name = fmt.Sprintf("Pool %d", jobCount+1)
	}

	jf.Pool = model.Pool{
		Length:     p.number(ColLength, true),
		Width:      p.number(ColWidth, true),
		Depth:      p.number(ColDepth, true),
		SlopeDepth: p.number(ColSlopeDepth, false),
	}

	steps := p.number(ColSteps, false)
	stepDepth := p.number(ColStepDepth, false)
	stairsWidth := p.number(ColStairsWidth, false)
	padW := p.number(ColPaddlingWidth, false)
	padL := p.number(ColPaddlingLen, false)
	padD := p.number(ColPaddlingDepth, false)
	divider := p.number(ColDividerOffset, false)
	if p.err != "" {
		return project.JobFile{}, p.err, ""
	}

	if jf.Pool.Length == 0 || jf.Pool.Width == 0 || jf.Pool.Depth == 0 {
		return project.JobFile{}, fmt.Sprintf("%s: Length, width, and depth must be positive", rowLabel), ""
	}

	var warning string
	if steps > 0 {
		if steps != float64(int(steps)) {
			warning = fmt.Sprintf("%s: Step count %g rounded down", rowLabel, steps)
		}
		jf.Pool.Stairs = &model.Stairs{
			StepCount: int(steps),
			StepDepth: stepDepth,
			Width:     stairsWidth,
			Full:      stairsWidth == 0,
		}
	}
	if padW > 0 && padL > 0 {
		jf.Pool.Paddling = &model.Paddling{Width: padW, Length: padL, Depth: padD, DividingWallOffset: divider}
	}

	if obj := getCell(row, mapping.Index(ColObjective)); obj != "" {
		if parsed, err := model.ParseObjective(obj); err == nil {
			jf.Objective = string(parsed)
		} else {
			warning = fmt.Sprintf("%s: Unknown objective '%s', using default", rowLabel, obj)
		}
	}

	return jf, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports pools from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports pools from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports pools from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a job.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		for _, role := range []string{ColLength, ColWidth, ColDepth} {
			if mapping.Index(role) == -1 {
				missing = append(missing, role)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		// No header: a non-numeric length column is an unrecognized header
		if _, err := parseNumber(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		jf, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Jobs))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Jobs = append(result.Jobs, jf)
	}

	return result
}
