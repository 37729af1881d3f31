// internal/decision/risk/persona.go
package risk

import "decision-core/internal/models"

// FilterByPersona projects the full recommendation set down to what a role
// is expected to see. Generator emission order (priority descending) is
// preserved; no re-sorting happens here. Unknown personas see everything.
func FilterByPersona(recommendations []models.Recommendation, persona models.Persona) []models.Recommendation {
	switch persona {
	case models.PersonaFounder:
		return filter(recommendations, func(r models.Recommendation) bool {
			return r.Priority == models.PriorityCritical || r.Priority == models.PriorityHigh
		})
	case models.PersonaSalesManager:
		return filter(recommendations, func(r models.Recommendation) bool {
			return r.SuggestedOwner == models.OwnerSales || r.SuggestedOwner == models.OwnerMarketing
		})
	case models.PersonaOpsCRM:
		return filter(recommendations, func(r models.Recommendation) bool {
			return r.SuggestedOwner == models.OwnerOps
		})
	default:
		return recommendations
	}
}

func filter(recommendations []models.Recommendation, keep func(models.Recommendation) bool) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(recommendations))
	for _, r := range recommendations {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
