// Package inspector renders the components of a single entity as text.
package inspector

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
)

// Section is one component's worth of fields.
type Section struct {
	Name   string
	Fields []Field
}

// Inspector reads entity components from a world.
type Inspector struct {
	world      *ecs.World
	posMap     *ecs.Map[components.Position]
	orgMap     *ecs.Map[components.Organism]
	energyMap  *ecs.Map[components.EnergyData]
	healthMap  *ecs.Map[components.Health]
	ageMap     *ecs.Map[components.Age]
	matMap     *ecs.Map[components.SexualMaturity]
	plantMap   *ecs.Map[components.Plant]
	animalMap  *ecs.Map[components.Animal]
	actionMap  *ecs.Map[components.Action]
	mobileMap  *ecs.Map[components.Mobile]
	carcassMap *ecs.Map[components.Carcass]
}

// NewInspector creates an inspector over world.
func NewInspector(world *ecs.World) *Inspector {
	return &Inspector{
		world:      world,
		posMap:     ecs.NewMap[components.Position](world),
		orgMap:     ecs.NewMap[components.Organism](world),
		energyMap:  ecs.NewMap[components.EnergyData](world),
		healthMap:  ecs.NewMap[components.Health](world),
		ageMap:     ecs.NewMap[components.Age](world),
		matMap:     ecs.NewMap[components.SexualMaturity](world),
		plantMap:   ecs.NewMap[components.Plant](world),
		animalMap:  ecs.NewMap[components.Animal](world),
		actionMap:  ecs.NewMap[components.Action](world),
		mobileMap:  ecs.NewMap[components.Mobile](world),
		carcassMap: ecs.NewMap[components.Carcass](world),
	}
}

// Inspect collects a section per component present on e. Returns nil for a
// removed entity.
func (ins *Inspector) Inspect(e ecs.Entity) []Section {
	if !ins.world.Alive(e) {
		return nil
	}

	var sections []Section
	add := func(name string, fields []Field) {
		if len(fields) > 0 {
			sections = append(sections, Section{Name: name, Fields: fields})
		}
	}

	if ins.orgMap.Has(e) {
		add("Organism", ExtractFields(ins.orgMap.Get(e)))
	}
	if ins.posMap.Has(e) {
		add("Position", ExtractFields(ins.posMap.Get(e)))
	}
	if ins.energyMap.Has(e) {
		energy := ins.energyMap.Get(e)
		fields := withMax(ExtractFields(energy), "ActiveEnergy", energy.MaxActiveEnergy())
		fields = append(fields,
			Field{Name: "Hunger", Value: energy.HungerLevel(), Widget: WidgetLabel},
			Field{Name: "Total", Value: energy.TotalEnergy(), Widget: WidgetLabel},
		)
		add("Energy", fields)
	}
	if ins.healthMap.Has(e) {
		health := ins.healthMap.Get(e)
		add("Health", withMax(ExtractFields(health), "HP", health.MaxHP()))
	}
	if ins.ageMap.Has(e) {
		add("Age", ExtractFields(ins.ageMap.Get(e)))
	}
	if ins.matMap.Has(e) {
		mat := ins.matMap.Get(e)
		fields := append(ExtractFields(mat),
			Field{Name: "Ready", Value: mat.IsReadyToReproduce(), Widget: WidgetBool})
		add("Maturity", fields)
	}
	if ins.plantMap.Has(e) {
		plant := ins.plantMap.Get(e)
		add("Plant", []Field{
			{Name: "Photosynthesis", Value: plant.PhotosynthesisGene.Phenotype(), Widget: WidgetLabel},
			{Name: "Pollination", Value: plant.PollinationGene.Phenotype(), Widget: WidgetLabel},
		})
	}
	if ins.animalMap.Has(e) {
		animal := ins.animalMap.Get(e)
		fields := append(ExtractFields(animal),
			Field{Name: "Speed", Value: animal.Speed(), Widget: WidgetLabel},
			Field{Name: "Sight", Value: animal.SightRange(), Widget: WidgetLabel},
			Field{Name: "Damage", Value: animal.AttackDamage(), Widget: WidgetLabel},
			Field{Name: "Reach", Value: animal.ActionRange(), Widget: WidgetLabel},
		)
		add("Animal", fields)
	}
	if ins.actionMap.Has(e) {
		add("Action", ExtractFields(ins.actionMap.Get(e)))
	}
	if ins.mobileMap.Has(e) {
		add("Mobile", ExtractFields(ins.mobileMap.Get(e)))
	}
	if ins.carcassMap.Has(e) {
		carcass := ins.carcassMap.Get(e)
		add("Carcass", withMax(ExtractFields(carcass), "Mass", carcass.StartingMass))
	}

	return sections
}

// withMax sets the bar scale of the named field.
func withMax(fields []Field, name string, maxVal float64) []Field {
	for i := range fields {
		if fields[i].Name == name {
			fields[i].Options["max"] = strconv.FormatFloat(maxVal, 'g', -1, 64)
		}
	}
	return fields
}

// Write renders title and sections to w.
func Write(w io.Writer, title string, sections []Section) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", title); err != nil {
		return err
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "%s\n", s.Name); err != nil {
			return err
		}
		for _, f := range s.Fields {
			if err := WriteField(w, f); err != nil {
				return err
			}
		}
	}
	return nil
}
