package dispatch

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
)

// TargetConfig is one publish destination in the shops file
type TargetConfig struct {
	Platform    string `yaml:"platform" json:"platform"`
	TargetID    string `yaml:"target_id" json:"target_id"`
	AccessToken string `yaml:"access_token" json:"access_token"`
}

// ShopConfig maps one shop to its destinations
type ShopConfig struct {
	ShopID  string         `yaml:"shop_id" json:"shop_id"`
	Targets []TargetConfig `yaml:"targets" json:"targets"`
}

// MappingConfig is the on-disk shape of the shop→platform mapping
type MappingConfig struct {
	Shops []ShopConfig `yaml:"shops" json:"shops"`
}

// Mapping is the immutable shop→targets lookup, built once at startup and
// injected into the dispatcher. Read-only at request time; changing it
// means redeploying.
type Mapping struct {
	byShop         map[string][]entity.PublishTarget
	defaultTargets []entity.PublishTarget
}

// NewMapping validates the configuration and builds the lookup. Every
// configured shop must carry at least one target; the first configured
// shop's targets double as the fallback for unknown shop ids.
func NewMapping(cfg MappingConfig) (*Mapping, error) {
	if len(cfg.Shops) == 0 {
		return nil, fmt.Errorf("shop mapping is empty")
	}

	m := &Mapping{byShop: make(map[string][]entity.PublishTarget, len(cfg.Shops))}
	for _, shop := range cfg.Shops {
		if shop.ShopID == "" {
			return nil, fmt.Errorf("shop with empty id in mapping")
		}
		if len(shop.Targets) == 0 {
			return nil, fmt.Errorf("shop %q has no targets", shop.ShopID)
		}

		targets := make([]entity.PublishTarget, 0, len(shop.Targets))
		for _, tc := range shop.Targets {
			platform, err := entity.ParsePlatform(tc.Platform)
			if err != nil {
				return nil, fmt.Errorf("shop %q: %w", shop.ShopID, err)
			}
			if tc.TargetID == "" {
				return nil, fmt.Errorf("shop %q: %w", shop.ShopID, entity.ErrMissingTargetID)
			}
			targets = append(targets, entity.PublishTarget{
				Platform:    platform,
				TargetID:    tc.TargetID,
				AccessToken: tc.AccessToken,
			})
		}

		m.byShop[shop.ShopID] = targets
		if m.defaultTargets == nil {
			m.defaultTargets = targets
		}
	}

	return m, nil
}

// LoadMappingFile reads the shops file (YAML or JSON, by extension) and
// builds the validated mapping
func LoadMappingFile(path string) (*Mapping, error) {
	var cfg MappingConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading shops file %s: %w", path, err)
	}
	return NewMapping(cfg)
}

// Resolve returns the targets for a shop. Unknown shops degrade to the
// default target set rather than failing; the second return reports whether
// the shop was actually configured.
func (m *Mapping) Resolve(shopID string) ([]entity.PublishTarget, bool) {
	if targets, ok := m.byShop[shopID]; ok {
		return targets, true
	}
	return m.defaultTargets, false
}
