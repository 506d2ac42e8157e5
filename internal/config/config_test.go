package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/config/data"
	"github.com/a1s/tabula/internal/dataset"
	"github.com/a1s/tabula/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `tabula:
  refreshRate: 5
  defaultRegion: eu-west-1
  table:
    pageSize: 20
    orderable: false
  html:
    title: Inventory
    tableClasses: [table, table-sm]
    ascendingClass: asc
    showFirstLast: true
    showPrevNext: false
    nextText: More
    columnsTab: true
    tabListClasses: [nav, nav-pills]
  ui:
    styles:
      headerFg: yellow
  views:
    people:
      path: people.json
      sort: -age
      columns:
        - name: NAME
          dataProperty: name
          orderable: true
        - name: AGE
          dataProperty: age
          path: person.age
          type: int
          orderable: true
          headerClasses: [num]
        - name: NICK
          dataProperty: name
`

func writeFile(t *testing.T, name, body string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfigLoad(t *testing.T) {
	c := NewConfig()
	require.NoError(t, c.Load(writeFile(t, "tabula.yaml", sampleConfig), true))

	tb := c.Tabula
	assert.Equal(t, float32(5), tb.RefreshRate)
	assert.Equal(t, 5*time.Second, tb.RefreshInterval())
	assert.Equal(t, DefaultAPITimeout.String(), tb.APITimeout)
	assert.Equal(t, 20, tb.Table.PageSize)
	assert.Equal(t, data.DefaultMaxPages, tb.Table.MaxPages)
	assert.False(t, tb.Table.IsOrderable())
	assert.Equal(t, "yellow", tb.UI.Styles.HeaderFg)
	assert.Equal(t, data.DefaultFg, tb.UI.Styles.Fg)
	assert.Equal(t, []string{"people"}, tb.ViewNames())

	ttl, err := tb.GetCacheTTL()
	require.NoError(t, err)
	assert.Equal(t, DefaultCacheTTL, ttl)
}

func TestConfigLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	c := NewConfig()
	require.NoError(t, c.Load(path, false))
	assert.Equal(t, float32(DefaultRefreshRate), c.Tabula.RefreshRate)
	assert.True(t, c.Tabula.Table.IsOrderable())

	assert.Error(t, c.Load(path, true))
}

func TestConfigLoadErrors(t *testing.T) {
	uu := map[string]struct {
		body string
		err  string
	}{
		"unknown-key": {body: "tabula:\n  bozo: 1\n", err: "field bozo not found"},
		"empty-view":  {body: "tabula:\n  views:\n    x:\n", err: `view "x" is empty`},
		"bad-view":    {body: "tabula:\n  views:\n    x:\n      sort: a\n", err: `view "x": view defines neither columns nor a path`},
		"no-name":     {body: "tabula:\n  views:\n    x:\n      columns:\n        - dataProperty: a\n", err: "column 0 has no name"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			err := NewConfig().Load(writeFile(t, "tabula.yaml", u.body), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), u.err)
		})
	}
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "tabula.yaml")
	c := NewConfig()
	c.Tabula.DefaultProfile = "dev"

	require.NoError(t, c.Save(path, false))
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, c.Save(path, true))
	loaded := NewConfig()
	require.NoError(t, loaded.Load(path, true))
	assert.Equal(t, "dev", loaded.Tabula.DefaultProfile)
}

func TestTabulaOverride(t *testing.T) {
	tb := NewTabula()
	f := NewFlags()
	*f.Profile = "prod"
	*f.PageSize = 0
	*f.MaxPages = 3
	*f.RefreshRate = 0.5

	tb.Override(f)
	assert.Equal(t, "prod", tb.DefaultProfile)
	assert.Equal(t, 0, tb.Table.PageSize)
	assert.Equal(t, 3, tb.Table.MaxPages)
	assert.Equal(t, 500*time.Millisecond, tb.RefreshInterval())

	tb.Table.PageSize = 7
	tb.Override(NewFlags())
	assert.Equal(t, 7, tb.Table.PageSize, "unset flags keep the config")
	tb.Override(nil)
}

type fakeProfiles []aws.Profile

func (f fakeProfiles) Profiles() ([]aws.Profile, error) {
	return f, nil
}

func TestConfigRefine(t *testing.T) {
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	profiles := fakeProfiles{
		{Name: "default", Region: "eu-central-1"},
		{Name: "dev"},
	}

	uu := map[string]struct {
		profile, region string
		cfgRegion       string
		eProfile        string
		eRegion         string
		err             string
	}{
		"defaults":      {eProfile: "default", eRegion: "eu-central-1"},
		"flag-region":   {region: "ap-south-1", eProfile: "default", eRegion: "ap-south-1"},
		"config-region": {cfgRegion: "us-west-2", eProfile: "default", eRegion: "us-west-2"},
		"no-region":     {profile: "dev", eProfile: "dev", eRegion: aws.DefaultRegion},
		"unknown":       {profile: "zorg", err: `profile "zorg" not found`},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			c := NewConfig()
			c.Tabula.DefaultRegion = u.cfgRegion
			f := NewFlags()
			*f.Profile, *f.Region = u.profile, u.region

			err := c.Refine(f, profiles)
			if u.err != "" {
				assert.EqualError(t, err, u.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.eProfile, c.ActiveProfile())
			assert.Equal(t, u.eRegion, c.ActiveRegion())
		})
	}
}

func TestConfigRefineEnv(t *testing.T) {
	t.Setenv("AWS_PROFILE", "ci")
	t.Setenv("AWS_REGION", "sa-east-1")

	c := NewConfig()
	require.NoError(t, c.Refine(NewFlags(), nil))
	assert.Equal(t, "ci", c.ActiveProfile())
	assert.Equal(t, "sa-east-1", c.ActiveRegion())
}

func TestHTMLOptions(t *testing.T) {
	c := NewConfig()
	require.NoError(t, c.Load(writeFile(t, "tabula.yaml", sampleConfig), true))

	opts := c.Tabula.HTMLOptions()
	assert.Equal(t, "Inventory", opts.Title)
	assert.Equal(t, []string{"table", "table-sm"}, opts.TableClasses)
	assert.Equal(t, "asc", opts.AscendingClass)
	assert.Equal(t, "sort-down", opts.DescendingClass)
	assert.Equal(t, "More", opts.NextText)
	assert.Equal(t, "Previous", opts.PrevText)
	assert.True(t, opts.ShowFirstLast)
	assert.False(t, opts.ShowPrevNext)
	assert.False(t, opts.Orderable)
	assert.Equal(t, data.DefaultMaxPages, opts.MaxPages)
	assert.True(t, opts.ColumnsTab)
	assert.Equal(t, []string{"nav", "nav-pills"}, opts.TabListClasses)
	assert.Equal(t, "nav-link", opts.TabLinkClass)
}

func TestViewColumnsAndSchema(t *testing.T) {
	c := NewConfig()
	require.NoError(t, c.Load(writeFile(t, "tabula.yaml", sampleConfig), true))
	v, err := c.Tabula.View("people")
	require.NoError(t, err)

	cols, err := ViewColumns(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"NAME", "AGE", "NICK"}, cols.Titles())
	age, _ := cols.At(1)
	assert.Equal(t, "age", age.DataProperty)
	assert.True(t, age.Orderable)
	assert.Equal(t, []string{"num"}, age.HeaderClasses)
	nick, _ := cols.At(2)
	assert.False(t, nick.Orderable)

	schema, err := ViewSchema(v)
	require.NoError(t, err)
	assert.Equal(t, []dataset.Field{
		{Name: "name"},
		{Name: "age", Path: "person.age", Type: dataset.TypeInt},
	}, schema.Fields())

	name, order := ParseSort(v.Sort)
	assert.Equal(t, "age", name)
	assert.Equal(t, table.Descending, order)

	_, err = c.Tabula.View("bozo")
	assert.Error(t, err)
}

func TestViewSchemaErrors(t *testing.T) {
	_, err := ViewSchema(&data.View{Columns: []data.ColumnDef{{Name: "a", Type: "blob"}}})
	assert.ErrorContains(t, err, "unknown field type")

	_, err = ViewSchema(&data.View{Columns: []data.ColumnDef{
		{Name: "a", DataProperty: "x", Type: "int"},
		{Name: "b", DataProperty: "x", Type: "string"},
	}})
	assert.EqualError(t, err, `column "b": conflicting definition of field "x"`)

	schema, err := ViewSchema(&data.View{Path: "x.json"})
	require.NoError(t, err)
	assert.Nil(t, schema)
}

func TestParseColumns(t *testing.T) {
	cols, err := ParseColumns([]string{"name:Name:N:true", "age,city:City"})
	require.NoError(t, err)
	assert.Equal(t, []string{"N", "age", "City"}, cols.Titles())

	_, err = ParseColumns([]string{"a", "a"})
	assert.Error(t, err)

	_, err = ParseColumns([]string{"a:b:c:d:e"})
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	n, o := ParseSort("+name")
	assert.Equal(t, "name", n)
	assert.Equal(t, table.Ascending, o)

	n, o = ParseSort(" -age ")
	assert.Equal(t, "age", n)
	assert.Equal(t, table.Descending, o)
}

func TestAliases(t *testing.T) {
	a := NewAliases()
	require.NoError(t, a.LoadFrom(filepath.Join(t.TempDir(), "none.yaml")))
	assert.Equal(t, "vpc/securitygroup", a.Get("sg"))

	path := writeFile(t, "aliases.yaml", "aliases:\n  sg: ec2/securitygroup\n  db: rds/dbinstance\n")
	require.NoError(t, a.LoadFrom(path))
	assert.Equal(t, "ec2/securitygroup", a.Get("sg"))
	assert.Equal(t, "rds/dbinstance", a.Get("db"))
	assert.Equal(t, "s3/bucket", a.Get("s3/bucket"))
	assert.Len(t, a.All(), len(DefaultAliases)+1)
}

func TestHotKeys(t *testing.T) {
	h := NewHotKeys()
	path := writeFile(t, "hotkeys.yaml", `hotKeys:
  byAge:
    shortCut: Shift-A
    description: Sort by age
    column: AGE
    order: descending
  byName:
    shortCut: Shift-N
    column: NAME
`)
	require.NoError(t, h.LoadFrom(path))
	assert.Equal(t, []string{"byAge", "byName"}, h.Names())
	assert.Equal(t, "descending", h.Get("byAge").Order)
	assert.Nil(t, h.Get("bozo"))

	bad := writeFile(t, "hotkeys.yaml", "hotKeys:\n  x:\n    shortCut: a\n    column: A\n    order: sideways\n")
	assert.EqualError(t, NewHotKeys().LoadFrom(bad), `hotkey "x": unknown sort order "sideways"`)

	missing := writeFile(t, "hotkeys.yaml", "hotKeys:\n  x:\n    shortCut: a\n")
	assert.Error(t, NewHotKeys().LoadFrom(missing))
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tabula.log")
	l, closer, err := NewLogger("WARN", path)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "k", "v")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "hidden"))
	assert.Contains(t, string(raw), "msg=shown k=v")

	_, _, err = NewLogger("chatty", "")
	assert.ErrorContains(t, err, `invalid log level "chatty"`)

	_, closer, err = NewLogger("debug", "")
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}

func TestInitLocs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	require.NoError(t, InitLocs())
	assert.Equal(t, filepath.Join(dir, "config", "tabula", "tabula.yaml"), AppConfigFile)
	assert.Equal(t, filepath.Join(dir, "state", "tabula", "tabula.log"), AppLogFile)
	assert.DirExists(t, AppConfigDir)
	assert.DirExists(t, AppStateDir)
	require.NoError(t, InitLogLoc())
}
