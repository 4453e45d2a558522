// Package models contains GORM database models for the Lightwave server.
package models

import (
	"time"
)

// Preset stores a complete captured render configuration in a named slot.
// Applying a preset routes through the transition engine, so preset recall,
// sequence playback, and manual switches all share one blend path.
type Preset struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Position  int       `gorm:"column:position;index"`
	Tags      string    `gorm:"column:tags"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Effect settings
	EffectID  int `gorm:"column:effect_id"`
	PaletteID int `gorm:"column:palette_id"`
	Brightness int `gorm:"column:brightness"`
	Speed      int `gorm:"column:speed"`

	// Visual parameters
	Intensity  int `gorm:"column:intensity"`
	Saturation int `gorm:"column:saturation"`
	Complexity int `gorm:"column:complexity"`
	Variation  int `gorm:"column:variation"`

	// Strip coupling
	SyncMode        string `gorm:"column:sync_mode"`
	PropagationMode string `gorm:"column:propagation_mode"`

	// Optional strip-2 override (Independent sync)
	Strip2Enabled   bool `gorm:"column:strip2_enabled"`
	Strip2EffectID  int  `gorm:"column:strip2_effect_id"`
	Strip2PaletteID int  `gorm:"column:strip2_palette_id"`

	// Transition preference used when the preset is recalled
	TransitionType string `gorm:"column:transition_type"`
	TransitionMs   int    `gorm:"column:transition_ms"`
}

// TableName specifies the table name for Preset.
func (Preset) TableName() string {
	return "presets"
}

// Sequence is an ordered playlist of presets.
type Sequence struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Loop      bool      `gorm:"column:loop"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Steps []SequenceStep `gorm:"foreignKey:SequenceID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Sequence.
func (Sequence) TableName() string {
	return "sequences"
}

// SequenceStep is one entry of a sequence: which preset, how long to hold it,
// and how to blend into it.
type SequenceStep struct {
	ID         string `gorm:"column:id;primaryKey"`
	SequenceID string `gorm:"column:sequence_id;index"`
	PresetID   string `gorm:"column:preset_id"`
	Position   int    `gorm:"column:position"`
	HoldMs     int    `gorm:"column:hold_ms"`

	TransitionType string `gorm:"column:transition_type"`
	TransitionMs   int    `gorm:"column:transition_ms"`

	Preset *Preset `gorm:"foreignKey:PresetID"`
}

// TableName specifies the table name for SequenceStep.
func (SequenceStep) TableName() string {
	return "sequence_steps"
}

// Setting stores a key-value configuration pair, e.g. the last applied
// render state restored at boot.
type Setting struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for Setting.
func (Setting) TableName() string {
	return "settings"
}
