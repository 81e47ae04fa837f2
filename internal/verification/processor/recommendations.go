package processor

import (
	"fmt"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

// recommendations generates reviewer guidance keyed by which issue types are
// present and how many. With no issues at all, the single reassuring message
// is returned.
func recommendations(issues []models.Issue) []string {
	if len(issues) == 0 {
		return []string{"No issues detected. Content verification passed all checks."}
	}

	counts := make(map[models.IssueType]int)
	criticalCount := 0
	for _, issue := range issues {
		counts[issue.Type]++
		if issue.Severity == models.SeverityCritical {
			criticalCount++
		}
	}

	var recs []string
	if criticalCount > 0 {
		recs = append(recs, fmt.Sprintf("%d critical issue(s) found. Hold distribution until they are resolved.", criticalCount))
	}
	if n := counts[models.IssueFactualError]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d factual error(s) detected. Review and verify against authoritative sources.", n))
	}
	if n := counts[models.IssueLogicalInconsistency]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d logical inconsistency(ies) detected. Review the document's argument structure.", n))
	}
	if n := counts[models.IssueComplianceViolation]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d compliance violation(s) detected. Consult your compliance team before distribution.", n))
	}
	if n := counts[models.IssueNumericalError]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d numerical error(s) detected. Re-check calculations and cited figures.", n))
	}
	return recs
}
