// Package classifier assigns each MappedComponent to a category from the
// fixed taxonomy (§4.5), by scanning a deterministic, ordered keyword
// rule list over the lowercased union of description, keywords and the
// resolved target symbol. The first matching rule wins; no match yields
// Uncategorized.
package classifier

import (
	"strings"

	"dblibmigrate/internal/core"
)

type rule struct {
	keywords []string
	category core.Category
}

// rules is deliberately ordered: more specific categories (Microcontrollers,
// Crystals & Oscillators, Power Management) are checked before the
// catch-all Integrated Circuits rule so a keyword present in both doesn't
// get swallowed by the broader bucket.
var rules = []rule{
	{[]string{"resistor"}, core.CategoryResistors},
	{[]string{"capacitor", "cap "}, core.CategoryCapacitors},
	{[]string{"inductor", "choke", "ferrite bead"}, core.CategoryInductors},
	{[]string{"diode", "led", "zener", "schottky"}, core.CategoryDiodes},
	{[]string{"transistor", "mosfet", "bjt", "fet"}, core.CategoryTransistors},
	{[]string{"crystal", "oscillator", "resonator"}, core.CategoryCrystalsOscillators},
	{[]string{"microcontroller", "mcu", "microprocessor"}, core.CategoryMicrocontrollers},
	{[]string{"memory", "eeprom", "flash", "sram", "dram"}, core.CategoryMemory},
	{[]string{"voltage regulator", "ldo", "dc-dc", "pmic", "power management"}, core.CategoryPowerManagement},
	{[]string{"sensor", "accelerometer", "gyroscope", "thermistor"}, core.CategorySensors},
	{[]string{"connector", "header", "socket"}, core.CategoryConnectors},
	{[]string{"screw", "standoff", "bolt", "nut", "washer", "mechanical"}, core.CategoryMechanical},
	{[]string{"test point", "testpoint"}, core.CategoryTestPoints},
	{[]string{"rf", "antenna", "balun"}, core.CategoryRF},
	{[]string{"optocoupler", "phototransistor", "photodiode"}, core.CategoryOptoelectronics},
	{[]string{"amplifier", "comparator", "opamp", "op-amp"}, core.CategoryAnalog},
	{[]string{"logic gate", "flip-flop", "multiplexer", "digital"}, core.CategoryDigital},
	{[]string{"integrated circuit", "ic "}, core.CategoryIntegratedCircuits},
}

// Classify assigns a category to one mapped component. It scans
// description, keywords and the target symbol, in that order, against the
// rule table; the first rule with any matching keyword wins.
func Classify(component core.MappedComponent, description string) core.Category {
	text := strings.ToLower(strings.Join([]string{
		description,
		component.Fields["Keywords"],
		string(component.TargetSymbol),
	}, " "))

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.category
			}
		}
	}
	return core.CategoryUncategorized
}
