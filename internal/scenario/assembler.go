package scenario

import "github.com/raysh454/harplay/internal/model"

// Assembler collects elements in the order they are appended. It never
// reorders or de-duplicates.
type Assembler struct {
	elements []model.TimedScenarioElement
}

func NewAssembler(capacity int) *Assembler {
	return &Assembler{elements: make([]model.TimedScenarioElement, 0, capacity)}
}

func (a *Assembler) Append(el model.TimedScenarioElement) {
	a.elements = append(a.elements, el)
}

func (a *Assembler) Len() int {
	return len(a.elements)
}

// Definition returns the scenario assembled so far. The returned value does
// not share storage with the assembler.
func (a *Assembler) Definition() *model.ScenarioDefinition {
	elements := make([]model.TimedScenarioElement, len(a.elements))
	copy(elements, a.elements)
	return &model.ScenarioDefinition{
		Elements:  elements,
		Auxiliary: []model.AuxiliaryElement{},
	}
}
