package config

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/a1s/tabula/internal/config/data"
	"github.com/a1s/tabula/internal/render"
)

// Default values
const (
	DefaultAPITimeout = 30 * time.Second
	DefaultCacheTTL   = 30 * time.Second
)

// Tabula represents the tabula global configuration.
type Tabula struct {
	RefreshRate    float32               `yaml:"refreshRate"`
	APITimeout     string                `yaml:"apiTimeout"`
	CacheTTL       string                `yaml:"cacheTTL"`
	DefaultProfile string                `yaml:"defaultProfile"`
	DefaultRegion  string                `yaml:"defaultRegion"`
	Table          data.Table            `yaml:"table"`
	HTML           data.HTML             `yaml:"html"`
	UI             data.UI               `yaml:"ui"`
	Views          map[string]*data.View `yaml:"views,omitempty"`

	mx sync.RWMutex
}

// NewTabula creates a Tabula with default settings.
func NewTabula() *Tabula {
	t := Tabula{
		RefreshRate: DefaultRefreshRate,
		APITimeout:  DefaultAPITimeout.String(),
		CacheTTL:    DefaultCacheTTL.String(),
		Views:       make(map[string]*data.View),
	}
	t.Table.MaxColumnWidth = data.DefaultMaxColumnWidth
	t.Table.Validate()
	t.UI.Styles.Validate()

	return &t
}

// Validate ensures Tabula has valid settings.
func (t *Tabula) Validate() error {
	t.mx.Lock()
	defer t.mx.Unlock()

	if t.RefreshRate <= 0 {
		t.RefreshRate = DefaultRefreshRate
	}
	if t.APITimeout == "" {
		t.APITimeout = DefaultAPITimeout.String()
	}
	if t.CacheTTL == "" {
		t.CacheTTL = DefaultCacheTTL.String()
	}
	t.Table.Validate()
	t.UI.Styles.Validate()
	if t.Views == nil {
		t.Views = make(map[string]*data.View)
	}
	for name, v := range t.Views {
		if v == nil {
			return fmt.Errorf("view %q is empty", name)
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("view %q: %w", name, err)
		}
	}

	return nil
}

// Override applies CLI flag overrides to the configuration.
func (t *Tabula) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	t.mx.Lock()
	defer t.mx.Unlock()

	if flags.RefreshRate != nil && *flags.RefreshRate > 0 {
		t.RefreshRate = *flags.RefreshRate
	}
	if IsStringSet(flags.Profile) {
		t.DefaultProfile = *flags.Profile
	}
	if IsStringSet(flags.Region) {
		t.DefaultRegion = *flags.Region
	}
	if IsIntSet(flags.PageSize) {
		t.Table.PageSize = *flags.PageSize
	}
	if flags.MaxPages != nil && *flags.MaxPages > 0 {
		t.Table.MaxPages = *flags.MaxPages
	}
}

// RefreshInterval returns the refresh rate as a duration.
func (t *Tabula) RefreshInterval() time.Duration {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return time.Duration(float64(t.RefreshRate) * float64(time.Second))
}

// GetAPITimeout returns the parsed API timeout duration.
func (t *Tabula) GetAPITimeout() (time.Duration, error) {
	t.mx.RLock()
	timeoutStr := t.APITimeout
	t.mx.RUnlock()

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid API timeout %q: %w", timeoutStr, err)
	}

	return timeout, nil
}

// GetCacheTTL returns the parsed AWS listing cache TTL.
func (t *Tabula) GetCacheTTL() (time.Duration, error) {
	t.mx.RLock()
	ttlStr := t.CacheTTL
	t.mx.RUnlock()

	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid cache TTL %q: %w", ttlStr, err)
	}

	return ttl, nil
}

// View returns a named view.
func (t *Tabula) View(name string) (*data.View, error) {
	t.mx.RLock()
	defer t.mx.RUnlock()

	v, ok := t.Views[name]
	if !ok {
		return nil, fmt.Errorf("no view named %q", name)
	}
	return v, nil
}

// ViewNames returns the configured view names, sorted.
func (t *Tabula) ViewNames() []string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	names := make([]string, 0, len(t.Views))
	for name := range t.Views {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// HTMLOptions returns the HTML renderer options, starting from the renderer
// defaults and overlaying every configured value.
func (t *Tabula) HTMLOptions() render.Options {
	t.mx.RLock()
	defer t.mx.RUnlock()

	h := t.HTML
	opts := render.DefaultOptions()
	opts.Orderable = t.Table.IsOrderable()
	opts.MaxPages = t.Table.MaxPages
	opts.QuickFilter = h.QuickFilter
	opts.ColumnsTab = h.ColumnsTab
	opts.ShowFirstLast = h.ShowFirstLast
	if h.ShowPrevNext != nil {
		opts.ShowPrevNext = *h.ShowPrevNext
	}
	if len(h.TableClasses) > 0 {
		opts.TableClasses = h.TableClasses
	}
	if len(h.ListClasses) > 0 {
		opts.ListClasses = h.ListClasses
	}
	if len(h.TabListClasses) > 0 {
		opts.TabListClasses = h.TabListClasses
	}
	for _, o := range []struct {
		dst *string
		src string
	}{
		{&opts.Title, h.Title},
		{&opts.Stylesheet, h.Stylesheet},
		{&opts.OrderableClass, h.OrderableClass},
		{&opts.UnorderedClass, h.UnorderedClass},
		{&opts.AscendingClass, h.AscendingClass},
		{&opts.DescendingClass, h.DescendingClass},
		{&opts.ItemClass, h.ItemClass},
		{&opts.LinkClass, h.LinkClass},
		{&opts.ActiveItemClass, h.ActiveItemClass},
		{&opts.DisabledClass, h.DisabledClass},
		{&opts.FirstText, h.FirstText},
		{&opts.PrevText, h.PrevText},
		{&opts.NextText, h.NextText},
		{&opts.LastText, h.LastText},
		{&opts.TabLinkClass, h.TabLinkClass},
	} {
		if o.src != "" {
			*o.dst = o.src
		}
	}

	return opts
}
