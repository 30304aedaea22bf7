// Package family lists the content families built on the shared tree shape.
// Each family is one self-referencing collection with its own routes.
package family

import "fmt"

// Family describes one tree-shaped content collection.
type Family struct {
	// Path is the URL segment, e.g. "algorithm-treatment".
	Path string
	// Name is the display name used in response messages.
	Name string
	// Table is the Postgres table holding the family's nodes.
	Table string
	// Collection is the Mongo collection holding the family's nodes.
	Collection string
	// TypeTitle tags notifications sent for the family's content.
	TypeTitle string
}

// Message formats a response message such as "Algorithm Treatment Created Successfully!".
func (f Family) Message(action string) string {
	return fmt.Sprintf("%s %s Successfully!", f.Name, action)
}

// The families served by the API.
var (
	CGCIntervention = Family{
		Path:       "algorithm-cgc-intervention",
		Name:       "Algorithm CGC Intervention",
		Table:      "algorithm_cgc_interventions",
		Collection: "algorithm_cgc_interventions",
		TypeTitle:  "CGC Interventions",
	}
	LatentTBInfection = Family{
		Path:       "algorithm-latent-tb-infection",
		Name:       "Algorithm Latent TB Infection",
		Table:      "algorithm_latent_tb_infections",
		Collection: "algorithm_latent_tb_infections",
		TypeTitle:  "Latent TB Infection",
	}
	Treatment = Family{
		Path:       "algorithm-treatment",
		Name:       "Algorithm Treatment",
		Table:      "algorithm_treatments",
		Collection: "algorithm_treatments",
		TypeTitle:  "Treatment Algorithm",
	}
	Diagnosis = Family{
		Path:       "algorithm-diagnosis",
		Name:       "Algorithm Diagnosis",
		Table:      "algorithm_diagnoses",
		Collection: "algorithm_diagnoses",
		TypeTitle:  "Diagnosis Algorithm",
	}
	DifferentialCare = Family{
		Path:       "algorithm-differential-care",
		Name:       "Algorithm Differential Care",
		Table:      "algorithm_differential_cares",
		Collection: "algorithm_differential_cares",
		TypeTitle:  "Differential Care Algorithm",
	}
	AdverseDrugReaction = Family{
		Path:       "algorithm-guidance-on-adverse-drug-reaction",
		Name:       "Algorithm Guidance On ADR",
		Table:      "algorithm_guidance_on_adverse_drug_reactions",
		Collection: "algorithm_guidance_on_adverse_drug_reactions",
		TypeTitle:  "Guidance on ADR",
	}
	ResourceMaterial = Family{
		Path:       "resource-material",
		Name:       "Resource Material",
		Table:      "resource_materials",
		Collection: "resource_materials",
		TypeTitle:  "Resource Material",
	}
)

// All returns every family in route registration order.
func All() []Family {
	return []Family{
		CGCIntervention,
		LatentTBInfection,
		Treatment,
		Diagnosis,
		DifferentialCare,
		AdverseDrugReaction,
		ResourceMaterial,
	}
}

// ByPath returns the family served at path.
func ByPath(path string) (Family, bool) {
	for _, f := range All() {
		if f.Path == path {
			return f, true
		}
	}
	return Family{}, false
}
