package reminder

import (
	"github.com/google/uuid"

	"github.com/complydesk/complydesk/pkg/models"
)

// SubjectGroup is one subject's slice of the matched documents for a
// threshold. ContactEmail is empty when the subject has no contact address;
// such groups still appear here but receive no subject email.
type SubjectGroup struct {
	SubjectID    uuid.UUID
	Name         string
	ContactEmail string
	Documents    []*models.ExpiringDocument
}

// Grouped is the partition of one threshold's matched documents. All carries
// every document including those without a subject; Subjects carries only
// documents attached to a subject, grouped in first-seen order.
type Grouped struct {
	All      []*models.ExpiringDocument
	Subjects []SubjectGroup
}

// GroupBySubject partitions documents by subject ID. Documents with no
// subject are excluded from subject groups but remain in All, so they are
// covered by the admin notification only.
func GroupBySubject(docs []*models.ExpiringDocument) Grouped {
	grouped := Grouped{All: docs}

	index := make(map[uuid.UUID]int)
	for _, doc := range docs {
		if doc.SubjectID == nil {
			continue
		}
		i, ok := index[*doc.SubjectID]
		if !ok {
			group := SubjectGroup{SubjectID: *doc.SubjectID}
			if doc.SubjectName != nil {
				group.Name = *doc.SubjectName
			}
			if doc.SubjectContactEmail != nil {
				group.ContactEmail = *doc.SubjectContactEmail
			}
			grouped.Subjects = append(grouped.Subjects, group)
			i = len(grouped.Subjects) - 1
			index[*doc.SubjectID] = i
		}
		grouped.Subjects[i].Documents = append(grouped.Subjects[i].Documents, doc)
	}

	return grouped
}
