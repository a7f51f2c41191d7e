package acl

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

// tagDTO is the terminology service's representation of a tag.
type tagDTO struct {
	UUID        string        `json:"uuid"`
	Display     string        `json:"display"`
	Tag         string        `json:"tag"`
	Description string        `json:"description"`
	Voided      bool          `json:"voided"`
	Retired     bool          `json:"retired"`
	AuditInfo   *auditInfoDTO `json:"auditInfo,omitempty"`
}

type auditInfoDTO struct {
	Creator     *referenceDTO `json:"creator,omitempty"`
	DateCreated string        `json:"dateCreated"`
}

type referenceDTO struct {
	UUID    string `json:"uuid"`
	Display string `json:"display"`
}

type resultsDTO struct {
	Results []tagDTO `json:"results"`
}

// Date layouts the terminology service has been seen to emit.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// translateTag converts one external tag. Older servers only fill display;
// a tag without a uuid is rejected since nothing downstream could refer to it.
func translateTag(ext *tagDTO) (*domain.ConceptNameTag, error) {
	if ext.UUID == "" {
		return nil, fmt.Errorf("tag without uuid")
	}

	name := ext.Tag
	if name == "" {
		name = ext.Display
	}

	tag := &domain.ConceptNameTag{
		UUID:        ext.UUID,
		Tag:         name,
		Description: ext.Description,
		Voided:      ext.Voided || ext.Retired,
	}

	if ext.AuditInfo != nil {
		if ext.AuditInfo.Creator != nil {
			tag.Creator = ext.AuditInfo.Creator.Display
		}

		if ext.AuditInfo.DateCreated != "" {
			created, err := parseDate(ext.AuditInfo.DateCreated)
			if err != nil {
				return nil, fmt.Errorf("tag %s: %w", ext.UUID, err)
			}

			tag.DateCreated = created
		}
	}

	return tag, nil
}

// translateAll converts every result, failing on the first bad item.
func translateAll(items []tagDTO) ([]*domain.ConceptNameTag, error) {
	out := make([]*domain.ConceptNameTag, 0, len(items))

	for i := range items {
		tag, err := translateTag(&items[i])
		if err != nil {
			return nil, fmt.Errorf("translating result %d: %w", i, err)
		}

		out = append(out, tag)
	}

	return out, nil
}

// pickMatch prefers a result equal to name ignoring case, then the first one.
// The service may match loosely (prefix or accent folding).
func pickMatch(tags []*domain.ConceptNameTag, name string) *domain.ConceptNameTag {
	if len(tags) == 0 {
		return nil
	}

	for _, tag := range tags {
		if domain.SameTag(strings.TrimSpace(tag.Tag), name) {
			return tag
		}
	}

	return tags[0]
}
