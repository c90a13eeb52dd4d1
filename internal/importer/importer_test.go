package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Name,Length,Width,Depth\nSmith,10,5,1.5\nJones,8,4,1.2\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_SemicolonWithDecimalCommas(t *testing.T) {
	data := []byte("Name;Length;Width;Depth\nSmith;10;5;1,5\nJones;8;4;1,2\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Name\tLength\tWidth\tDepth\nSmith\t10\t5\t1.5\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Name|Length|Width|Depth\nSmith|10|5|1.5\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Name", "Length", "Width", "Depth", "Steps", "Material"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := map[string]int{ColName: 0, ColLength: 1, ColWidth: 2, ColDepth: 3, ColSteps: 4, ColMain: 5}
	for role, idx := range want {
		if got := mapping.Index(role); got != idx {
			t.Errorf("expected %s at %d, got %d", role, idx, got)
		}
	}
	if mapping.Index(ColPaddlingWidth) != -1 {
		t.Error("expected paddling width to be absent")
	}
}

func TestDetectColumns_AliasesAndCase(t *testing.T) {
	row := []string{"REF", "L", "W", "Deep End", "Shallow Depth", "Wading Width"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Index(ColName) != 0 || mapping.Index(ColLength) != 1 || mapping.Index(ColWidth) != 2 {
		t.Errorf("unexpected mapping %v", mapping)
	}
	if mapping.Index(ColSlopeDepth) != 3 {
		t.Errorf("expected slope depth at 3, got %d", mapping.Index(ColSlopeDepth))
	}
	if mapping.Index(ColDepth) != 4 {
		t.Errorf("expected depth at 4, got %d", mapping.Index(ColDepth))
	}
	if mapping.Index(ColPaddlingWidth) != 5 {
		t.Errorf("expected paddling width at 5, got %d", mapping.Index(ColPaddlingWidth))
	}
}

func TestDetectColumns_FirstMatchWins(t *testing.T) {
	mapping, _ := DetectColumns([]string{"Length", "Len", "Width", "Depth"})
	if mapping.Index(ColLength) != 0 {
		t.Errorf("expected first length column to win, got %d", mapping.Index(ColLength))
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Smith", "10", "5", "1.5"})

	if isHeader {
		t.Error("expected no header detection for numeric data")
	}
	if mapping.Index(ColLength) != 1 || mapping.Index(ColDepth) != 3 {
		t.Errorf("expected positional mapping, got %v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Length,Width,Depth,Steps,Step Depth,Objective\n" +
		"Smith,10,5,1.5,3,0.3,min-rolls\n" +
		"Jones,8,4,1.2,,,\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Jobs))
	}

	smith := result.Jobs[0]
	if smith.Name != "Smith" || smith.Pool.Length != 10 || smith.Pool.Depth != 1.5 {
		t.Errorf("unexpected first job %+v", smith)
	}
	if smith.Pool.Stairs == nil || smith.Pool.Stairs.StepCount != 3 || !smith.Pool.Stairs.Full {
		t.Errorf("expected full-width stairs with 3 steps, got %+v", smith.Pool.Stairs)
	}
	if smith.Objective != "minRolls" {
		t.Errorf("expected objective minRolls, got %s", smith.Objective)
	}
	if result.Jobs[1].Pool.Stairs != nil {
		t.Error("expected no stairs on second job")
	}
}

func TestImportCSVFromReader_Paddling(t *testing.T) {
	data := "Name,Length,Width,Depth,Paddling Width,Paddling Length,Paddling Depth,Divider Offset\n" +
		"Family,12,6,1.4,2,3,0.4,0.3\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d (errors: %v)", len(result.Jobs), result.Errors)
	}
	pd := result.Jobs[0].Pool.Paddling
	if pd == nil {
		t.Fatal("expected paddling pool")
	}
	if pd.Width != 2 || pd.Length != 3 || pd.DividingWallOffset != 0.3 {
		t.Errorf("unexpected paddling %+v", pd)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	data := "Name,Length,Width,Depth\n" +
		"Missing,10,,1.5\n" +
		"Bad,ten,5,1.5\n" +
		"Zero,10,5,0\n" +
		"Negative,10,5,-1\n" +
		"Good,10,5,1.5\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 valid job, got %d", len(result.Jobs))
	}
	if len(result.Errors) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Line 2:") {
		t.Errorf("expected error to reference line 2, got %s", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "Invalid length 'ten'") {
		t.Errorf("unexpected error message %s", result.Errors[1])
	}
}

func TestImportCSVFromReader_UnknownObjectiveWarns(t *testing.T) {
	data := "Name,Length,Width,Depth,Objective\nSmith,10,5,1.5,cheapest\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(result.Jobs))
	}
	if result.Jobs[0].Objective != "" {
		t.Errorf("expected empty objective, got %s", result.Jobs[0].Objective)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Unknown objective") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unknown objective warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MissingRequiredColumns(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Length,Width\nSmith,10,5\n"), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "depth") {
		t.Errorf("expected missing depth column error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_DefaultNames(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(",10,5,1.5\n,8,4,1.2\n"), ',')

	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d (errors: %v)", len(result.Jobs), result.Errors)
	}
	if result.Jobs[1].Name != "Pool 2" {
		t.Errorf("expected default name 'Pool 2', got %s", result.Jobs[1].Name)
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.csv")
	content := "Name;Length;Width;Depth\nSmith;10;5;1,5\n\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)

	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d (errors: %v)", len(result.Jobs), result.Errors)
	}
	if result.Jobs[0].Pool.Depth != 1.5 {
		t.Errorf("expected decimal comma depth 1.5, got %f", result.Jobs[0].Pool.Depth)
	}
	if len(result.Warnings) == 0 || result.Warnings[0] != "Detected semicolon delimiter" {
		t.Errorf("expected semicolon warning first, got %v", result.Warnings)
	}
}

func TestImportCSV_EmptyAndMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportCSV(path); len(result.Errors) != 1 {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
	if result := ImportCSV(filepath.Join(t.TempDir(), "nope.csv")); len(result.Errors) != 1 {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pools.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Length", "Width", "Depth", "Material"},
		{"Smith", 10, 5, 1.5, "Reinforced PVC 2.0mm"},
		{"Jones", 8, 4, 1.2, ""},
	})

	result := ImportFile(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Jobs))
	}
	if result.Jobs[0].Pool.Depth != 1.5 {
		t.Errorf("expected depth 1.5, got %f", result.Jobs[0].Pool.Depth)
	}
	if result.Jobs[0].MainMaterial != "Reinforced PVC 2.0mm" {
		t.Errorf("expected material, got %q", result.Jobs[0].MainMaterial)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Smith", 10, 5, 1.5},
		{"Jones", 8, 4, 1.2},
	})

	result := ImportExcel(path)

	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d (errors: %v)", len(result.Jobs), result.Errors)
	}
}

func TestImportExcel_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportExcel(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid Excel file")
	}
}
