package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFacility = `
name: lwr
in_commodity: fresh_fuel
in_recipe: uox
out_commodity: spent_fuel
out_recipe: spent_uox
batch_size: 10
n_batches: 3
n_load: 3
n_reserves: 3
process_time: 5
production:
  commodity: power
  capacity: 1000
`

type cliEnv struct {
	dir        string
	configFile string
	facility   string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()

	env := &cliEnv{
		dir:        dir,
		configFile: filepath.Join(dir, "config.yaml"),
		facility:   filepath.Join(dir, "lwr.yaml"),
	}
	cfg := fmt.Sprintf("database:\n  type: sqlite\n  path: %s\nlogging:\n  level: error\n",
		filepath.Join(dir, "br.db"))
	require.NoError(t, os.WriteFile(env.configFile, []byte(cfg), 0o644))
	require.NoError(t, os.WriteFile(env.facility, []byte(testFacility), 0o644))
	return env
}

func (e *cliEnv) run(args ...string) (string, error) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.configFile}, args...))
	err := root.Execute()
	return out.String(), err
}

// ============================================================================
// simulate
// ============================================================================

func TestSimulate_FromFacilityFile(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("simulate", "--facility", env.facility, "--ticks", "12", "--sink", "10")

	require.NoError(t, err)
	assert.Contains(t, out, "COMPLETED")
	assert.Contains(t, out, "lwr")
	assert.Regexp(t, `Ticks:\s+12`, out)
}

func TestSimulate_PrintsHistory(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("simulate", "--facility", env.facility, "--ticks", "3", "--initial-core", "3", "--history")

	require.NoError(t, err)
	assert.Contains(t, out, "TICK")
	assert.Contains(t, out, "PROCESSING")
}

func TestSimulate_RequiresExactlyOneFacilitySource(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("simulate")
	assert.Error(t, err)

	_, err = env.run("simulate", "--facility", env.facility, "--prototype", "lwr")
	assert.Error(t, err)
}

func TestSimulate_UnknownPrototype(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("simulate", "--prototype", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prototype not found")
}

// ============================================================================
// prototype
// ============================================================================

func TestPrototype_Lifecycle(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("prototype", "add", "--file", env.facility)
	require.NoError(t, err)
	assert.Contains(t, out, "Prototype lwr saved")

	out, err = env.run("prototype", "add", "--file", env.facility, "--name", "lwr-copy")
	require.NoError(t, err)
	assert.Contains(t, out, "Prototype lwr-copy saved")

	out, err = env.run("prototype", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "lwr-copy")
	assert.Contains(t, out, "fresh_fuel")

	out, err = env.run("prototype", "show", "lwr")
	require.NoError(t, err)
	assert.Regexp(t, `Core loading:\s+30`, out)
	assert.Contains(t, out, "power")

	out, err = env.run("simulate", "--prototype", "lwr", "--ticks", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "COMPLETED")

	out, err = env.run("prototype", "delete", "lwr")
	require.NoError(t, err)
	assert.Contains(t, out, "Prototype lwr deleted")

	_, err = env.run("prototype", "show", "lwr")
	assert.Error(t, err)
}

func TestPrototypeAdd_RejectsInvalidFacility(t *testing.T) {
	env := newCLIEnv(t)
	bad := filepath.Join(env.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("batch_size: 10\n"), 0o644))

	_, err := env.run("prototype", "add", "--file", bad)

	assert.Error(t, err)
}

func TestPrototypeList_Empty(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("prototype", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No prototypes stored")
}

// ============================================================================
// config
// ============================================================================

func TestConfigShow(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "br.db")
	assert.Regexp(t, `Level:\s+error`, out)
	assert.Regexp(t, `Ticks:\s+100`, out)
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgresql://br:xxxxx@db:5432/br", maskPassword("postgresql://br:secret@db:5432/br"))
	assert.Equal(t, "postgresql://db:5432/br", maskPassword("postgresql://db:5432/br"))
	assert.Equal(t, "batchreactor.db", maskPassword("batchreactor.db"))
}
