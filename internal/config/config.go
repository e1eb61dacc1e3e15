// Package config defines the data structures related to a project file and
// includes functions for loading it and turning it into engine inputs.
package config

import (
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/iwvelando/field-forecast/pkg/datetime"
	"github.com/iwvelando/field-forecast/pkg/earnedvalue"
	"github.com/iwvelando/field-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// eventNamespace seeds the name-based UUIDs given to events without an ID.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/iwvelando/field-forecast/events"))

// Configuration holds a project and the runtime settings for field-forecast.
type Configuration struct {
	Project   Project
	WorkUnits []WorkUnit
	Schemas   []Schema
	Events    []Event
	Overrides []Override
	Inventory []InventoryItem
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Project holds project-wide settings.
type Project struct {
	Name string
	// SortEvents stable-sorts events by date key before forecasting.
	SortEvents bool
}

// WorkUnit is a budgeted scope item. TargetECAC, when set, requests a
// reverse-rate calculation for the unit.
type WorkUnit struct {
	Code          string
	Description   string
	BudgetedQty   float64
	UOM           string
	BudgetedHours float64
	UnitCost      float64
	Schema        string
	TargetECAC    *float64
	Components    []Component
	Materials     []Material
}

// Component is a weighted sub-scope of a work unit.
type Component struct {
	Name          string
	PlanQty       float64
	UOM           string
	BudgetedHours float64
	InstalledQty  float64
}

// Material is a consumable required by a work unit.
type Material struct {
	Material    string
	UOM         string
	QtyRequired float64
}

// Schema is a claiming schema. Step names are matched case-sensitively
// against event progress keys.
type Schema struct {
	ID    string
	Name  string
	Steps []Step
}

// Step is one weighted milestone of a schema.
type Step struct {
	Name   string
	Weight float64
}

// Event is a field production report.
type Event struct {
	ID         string
	Code       string
	Date       string
	Hours      float64
	Qty        float64
	EquipHours float64
	Note       string
	Progress   map[string]float64
	Source     string
}

// Override is a PM-validated quantity/hours pair for a work unit.
type Override struct {
	Code  string
	Qty   float64
	Hours float64
}

// InventoryItem is the on-hand quantity of a consumable.
type InventoryItem struct {
	Material string
	UOM      string
	OnHand   float64
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// project file there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted project from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Prepare assigns missing event IDs and, when the project asks for it,
// sorts events chronologically. IDs are derived before sorting so they stay
// stable for a given file.
func (conf *Configuration) Prepare() {
	conf.AssignEventIDs()
	if conf.Project.SortEvents {
		conf.SortEvents()
	}
}

// AssignEventIDs gives every event without an ID a deterministic UUID
// derived from its code, date and position in the file.
func (conf *Configuration) AssignEventIDs() {
	for i := range conf.Events {
		if conf.Events[i].ID != "" {
			continue
		}
		name := fmt.Sprintf("%s|%s|%d", conf.Events[i].Code, conf.Events[i].Date, i)
		conf.Events[i].ID = uuid.NewSHA1(eventNamespace, []byte(name)).String()
	}
}

// SortEvents stable-sorts events by date key. Events with keys that are not
// dates keep their relative order after all dated events.
func (conf *Configuration) SortEvents() {
	sort.SliceStable(conf.Events, func(i, j int) bool {
		return datetime.KeyBefore(conf.Events[i].Date, conf.Events[j].Date)
	})
}

// Snapshot copies the project into the engine's immutable input shape.
// Nothing in the result aliases the configuration.
func (conf *Configuration) Snapshot() earnedvalue.Project {
	project := earnedvalue.Project{
		Name:      conf.Project.Name,
		WorkUnits: make([]earnedvalue.WorkUnit, 0, len(conf.WorkUnits)),
		Schemas:   make([]earnedvalue.ClaimingSchema, 0, len(conf.Schemas)),
		Events:    make([]earnedvalue.ProductionEvent, 0, len(conf.Events)),
		Overrides: make([]earnedvalue.Override, 0, len(conf.Overrides)),
		Inventory: make([]earnedvalue.InventoryItem, 0, len(conf.Inventory)),
	}

	for _, unit := range conf.WorkUnits {
		project.WorkUnits = append(project.WorkUnits, unit.toWorkUnit())
	}

	for _, schema := range conf.Schemas {
		steps := make([]earnedvalue.Step, 0, len(schema.Steps))
		for _, step := range schema.Steps {
			steps = append(steps, earnedvalue.Step{Name: step.Name, Weight: step.Weight})
		}
		project.Schemas = append(project.Schemas, earnedvalue.ClaimingSchema{ID: schema.ID, Name: schema.Name, Steps: steps})
	}

	for _, event := range conf.Events {
		var progress map[string]float64
		if len(event.Progress) > 0 {
			progress = make(map[string]float64, len(event.Progress))
			for step, pct := range event.Progress {
				progress[step] = pct
			}
		}
		project.Events = append(project.Events, earnedvalue.ProductionEvent{
			ID:         event.ID,
			Code:       event.Code,
			Date:       event.Date,
			Hours:      event.Hours,
			Qty:        event.Qty,
			EquipHours: event.EquipHours,
			Note:       event.Note,
			Progress:   progress,
			Source:     event.Source,
		})
	}

	for _, override := range conf.Overrides {
		project.Overrides = append(project.Overrides, earnedvalue.Override(override))
	}

	for _, item := range conf.Inventory {
		project.Inventory = append(project.Inventory, earnedvalue.InventoryItem(item))
	}

	return project
}

func (unit WorkUnit) toWorkUnit() earnedvalue.WorkUnit {
	result := earnedvalue.WorkUnit{
		Code:          unit.Code,
		Description:   unit.Description,
		BudgetedQty:   unit.BudgetedQty,
		UOM:           unit.UOM,
		BudgetedHours: unit.BudgetedHours,
		UnitCost:      unit.UnitCost,
		SchemaID:      unit.Schema,
	}
	if len(unit.Components) > 0 {
		result.Components = make([]earnedvalue.Component, 0, len(unit.Components))
		for _, component := range unit.Components {
			result.Components = append(result.Components, earnedvalue.Component(component))
		}
	}
	if len(unit.Materials) > 0 {
		result.Materials = make([]earnedvalue.MaterialRequirement, 0, len(unit.Materials))
		for _, material := range unit.Materials {
			result.Materials = append(result.Materials, earnedvalue.MaterialRequirement(material))
		}
	}
	return result
}

// TargetECACFor returns the configured reverse-rate target for a code.
func (conf *Configuration) TargetECACFor(code string) (float64, bool) {
	for _, unit := range conf.WorkUnits {
		if unit.Code == code && unit.TargetECAC != nil {
			return *unit.TargetECAC, true
		}
	}
	return 0, false
}

// ValidateConfiguration performs general validation of the project and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ProjectValidator{Sorted: conf.Project.SortEvents}

	for _, unit := range conf.WorkUnits {
		materials := make([]string, 0, len(unit.Materials))
		for _, material := range unit.Materials {
			materials = append(materials, material.Material)
		}
		validator.WorkUnits = append(validator.WorkUnits, validation.WorkUnitConfig{
			Code:          unit.Code,
			BudgetedQty:   unit.BudgetedQty,
			BudgetedHours: unit.BudgetedHours,
			Schema:        unit.Schema,
			Materials:     materials,
		})
	}

	for _, schema := range conf.Schemas {
		weights := make([]float64, 0, len(schema.Steps))
		for _, step := range schema.Steps {
			weights = append(weights, step.Weight)
		}
		validator.Schemas = append(validator.Schemas, validation.SchemaConfig{ID: schema.ID, Weights: weights})
	}

	for _, event := range conf.Events {
		validator.Events = append(validator.Events, validation.EventConfig{
			Code:   event.Code,
			Date:   event.Date,
			Source: event.Source,
		})
	}

	for _, override := range conf.Overrides {
		validator.Overrides = append(validator.Overrides, override.Code)
	}

	for _, item := range conf.Inventory {
		validator.Inventory = append(validator.Inventory, item.Material)
	}

	return validator.ValidateAll()
}
