package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FoilCut/internal/model"
	"github.com/piwi3910/FoilCut/internal/project"
)

type testEnv struct {
	dir       string
	config    string
	inventory string
	job       string
}

// newTestEnv writes a config, an inventory and one job file into a temp dir.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	env := testEnv{
		dir:       dir,
		config:    filepath.Join(dir, "config.yaml"),
		inventory: filepath.Join(dir, "inventory.json"),
		job:       filepath.Join(dir, "jobs", "garden.yaml"),
	}

	cfg := model.DefaultAppConfig()
	cfg.InventoryPath = env.inventory
	require.NoError(t, project.SaveAppConfig(env.config, cfg))
	require.NoError(t, project.SaveInventory(env.inventory, model.DefaultInventory()))
	require.NoError(t, project.WriteJobFile(env.job, project.JobFile{
		Name: "Garden pool",
		Pool: model.Pool{Length: 10, Width: 5, Depth: 1.5},
	}))
	return env
}

func (env testEnv) run(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	root := NewRootCmd(&out, &errOut)
	root.SetArgs(append(args, "--config", env.config, "--no-color"))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestOptimize_JSON(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("optimize", env.job, "--json")
	require.NoError(t, err)

	var cfg model.MixConfiguration
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, model.ObjectiveMinWaste, cfg.Objective)
	assert.Positive(t, cfg.TotalRolls())
	assert.Positive(t, cfg.Pricing.TotalChargeable)
	assert.NotNil(t, cfg.WallPlan)
}

func TestOptimize_Report(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("optimize", env.job, "--objective", "minRolls")
	require.NoError(t, err)

	assert.Contains(t, out, "Garden pool  (minRolls)")
	for _, section := range []string{"SURFACES", "WALL STRIPS", "ROLLS", "PRICING", "Total chargeable"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "Bottom")
}

func TestOptimize_VerboseLogsToErrOut(t *testing.T) {
	env := newTestEnv(t)

	_, logs, err := env.run("optimize", env.job, "--verbose", "--json-logs")
	require.NoError(t, err)

	assert.Contains(t, logs, `"msg":"wall plan selected"`)
}

func TestOptimize_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("optimize", env.job, "--objective", "cheapest")
	assert.Error(t, err)

	_, _, err = env.run("optimize", filepath.Join(env.dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(env.dir, "bad.yaml")
	require.NoError(t, project.WriteJobFile(bad, project.JobFile{Name: "bad", Pool: model.Pool{Length: 10, Width: 5}}))
	_, _, err = env.run("optimize", bad)
	assert.ErrorIs(t, err, model.ErrInvalidGeometry)

	_, _, err = env.run("optimize")
	assert.Error(t, err, "job argument is required")
}

func TestCompare(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("compare", env.job)
	require.NoError(t, err)

	assert.Contains(t, out, "Minimum waste")
	assert.Contains(t, out, "Minimum rolls")
	assert.Contains(t, out, "Narrow rolls only")
	assert.Contains(t, out, "*", "the cheapest scenario is marked")
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)

	csvPath := filepath.Join(env.dir, "cut.csv")
	_, _, err := env.run("export", env.job, "-o", csvPath)
	require.NoError(t, err)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "roll,foil,width_m,used_m,remaining_m,strips"))

	xlsxPath := filepath.Join(env.dir, "cut.xlsx")
	_, _, err = env.run("export", env.job, "-o", xlsxPath)
	require.NoError(t, err)
	assert.FileExists(t, xlsxPath)

	_, _, err = env.run("export", env.job, "-o", filepath.Join(env.dir, "cut.pdf"))
	assert.ErrorIs(t, err, project.ErrUnsupportedFormat)
}

func TestMaterials(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("materials", "add", "Tread Plus", "--structural", "--butt")
	require.NoError(t, err)

	out, _, err := env.run("materials", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tread Plus")
	assert.Contains(t, out, "narrow-only,structural")

	out, _, err = env.run("materials", "list", "--structural")
	require.NoError(t, err)
	assert.Contains(t, out, "Tread Plus")
	assert.Contains(t, out, "Anti-slip PVC 1.5mm")
	assert.NotContains(t, out, "Reinforced PVC")

	_, _, err = env.run("materials", "add", "Tread Plus")
	assert.Error(t, err)

	inv, err := project.LoadInventory(env.inventory)
	require.NoError(t, err)
	m := inv.FindByName("Tread Plus")
	require.NotNil(t, m)
	assert.Equal(t, model.JointButt, m.Joint)
}

func TestMaterials_ExportImport(t *testing.T) {
	env := newTestEnv(t)
	other := filepath.Join(env.dir, "other.json")
	extra := model.NewMaterial("Liner Deluxe", "pvc", false, model.JointWelded, false)
	require.NoError(t, project.SaveInventory(other, model.Inventory{Materials: []model.Material{extra}}))

	out, _, err := env.run("materials", "import", other)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 materials")

	exported := filepath.Join(env.dir, "exported.json")
	_, _, err = env.run("materials", "export", exported)
	require.NoError(t, err)
	inv, err := project.LoadInventory(exported)
	require.NoError(t, err)
	assert.NotNil(t, inv.FindByID(extra.ID))
}

func TestImport(t *testing.T) {
	env := newTestEnv(t)
	csvPath := filepath.Join(env.dir, "pools.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,length,width,depth\nPool A,10,5,1.5\nPool B,8,4,1.2\n"), 0644))
	saveDir := filepath.Join(env.dir, "imported")

	out, _, err := env.run("import", csvPath, "--save-dir", saveDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Pool A")
	assert.Contains(t, out, "Pool B")
	assert.Contains(t, out, "Total")
	assert.FileExists(t, filepath.Join(saveDir, "Pool_A.yaml"))

	jf, err := project.ReadJobFile(filepath.Join(saveDir, "Pool_B.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8.0, jf.Pool.Length)
}

func TestImport_NothingUsable(t *testing.T) {
	env := newTestEnv(t)
	csvPath := filepath.Join(env.dir, "empty.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,length,width,depth\n"), 0644))

	_, _, err := env.run("import", csvPath)
	assert.Error(t, err)
}

func TestConfig_InitAndShow(t *testing.T) {
	env := newTestEnv(t)
	fresh := filepath.Join(env.dir, "fresh", "config.yaml")

	var out bytes.Buffer
	root := NewRootCmd(&out, &bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--config", fresh, "--no-color"})
	require.NoError(t, root.Execute())
	assert.FileExists(t, fresh)

	root = NewRootCmd(&out, &bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--config", fresh, "--no-color"})
	assert.Error(t, root.Execute(), "existing file is not overwritten")

	shown, _, err := env.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, shown, "roll_length: 25")
	assert.Contains(t, shown, "inventory_path: "+env.inventory)
}

func TestConfig_MissingExplicitFile(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd(&out, &bytes.Buffer{})
	root.SetArgs([]string{"materials", "list", "--config", filepath.Join(t.TempDir(), "nope.yaml")})

	assert.Error(t, root.Execute())
}

func TestConfig_EnvironmentOverridesFile(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("FOILCUT_OBJECTIVE", "minRolls")

	out, _, err := env.run("optimize", env.job, "--json")
	require.NoError(t, err)

	var cfg model.MixConfiguration
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, model.ObjectiveMinRolls, cfg.Objective)
}

func TestConfig_EnvironmentOverridesSettings(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("FOILCUT_SETTINGS_ROLL_LENGTH", "30")
	t.Setenv("FOILCUT_SETTINGS_REUSE_THRESHOLD", "3.5")

	shown, _, err := env.run("config", "show")
	require.NoError(t, err)

	assert.Contains(t, shown, "roll_length: 30")
	assert.Contains(t, shown, "reuse_threshold: 3.5")
	assert.Contains(t, shown, "narrow_width: 1.65")
}

func TestConfig_ExplicitZeroSettingsAreKept(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.config, []byte("inventory_path: "+env.inventory+"\nsettings:\n  min_overlap: 0\n  wall_seam_overlap: 0\n"), 0644))

	shown, _, err := env.run("config", "show")
	require.NoError(t, err)

	assert.Contains(t, shown, "min_overlap: 0\n")
	assert.Contains(t, shown, "wall_seam_overlap: 0\n")
	assert.Contains(t, shown, "roll_length: 25")

	_, _, err = env.run("optimize", env.job, "--json")
	assert.NoError(t, err)
}

func TestConfig_BackupRestore(t *testing.T) {
	env := newTestEnv(t)
	backup := filepath.Join(env.dir, "backup.json")

	out, _, err := env.run("config", "backup", backup, "--jobs", filepath.Dir(env.job))
	require.NoError(t, err)
	assert.Contains(t, out, "5 materials and 1 jobs")

	require.NoError(t, project.SaveInventory(env.inventory, model.Inventory{Materials: []model.Material{}}))
	restored := filepath.Join(env.dir, "restored")
	out, _, err = env.run("config", "restore", backup, "--jobs", restored)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 5 materials")

	inv, err := project.LoadInventory(env.inventory)
	require.NoError(t, err)
	assert.Len(t, inv.Materials, 5)
	assert.FileExists(t, filepath.Join(restored, "Garden_pool.yaml"))
}
