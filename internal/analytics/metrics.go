package analytics

import (
	"fmt"

	"gorm.io/gorm"

	"folio/internal/catalog"
	"folio/internal/events"
)

// GetTopCountries fetches the countries with the most events in the time
// frame. Names are raw ISO codes (or the unknown marker); display
// conversion happens at the handler edge.
func GetTopCountries(db *gorm.DB, params QueryParams) ([]MetricCountResult, error) {
	var rawResults []struct {
		Country string
		Count   int64
	}

	query := `
    SELECT
        country as country,
        COUNT(*) as count
    FROM events
    WHERE created_at >= ?
    AND is_admin = 0
    GROUP BY country
    HAVING count > 0
    ORDER BY count DESC
    LIMIT ?
    `

	err := db.Raw(query, params.TimeFrame.From.UTC(), params.Limit).Scan(&rawResults).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching top countries: %w", err)
	}

	results := make([]MetricCountResult, len(rawResults))
	for i, r := range rawResults {
		results[i] = MetricCountResult{Name: r.Country, Count: r.Count}
	}

	return results, nil
}

// idCount is an intermediate row for catalog-joined facets.
type idCount struct {
	ID    uint
	Count int64
}

// GetTopProjects fetches the most viewed projects in the time frame, joined
// against the project catalog. View counts whose project has been deleted
// from the catalog are dropped, not renamed.
func GetTopProjects(db *gorm.DB, params QueryParams) ([]MetricCountResult, error) {
	rows, err := topViewCounts(db, params, events.EventTypeProjectView, "project_id")
	if err != nil {
		return nil, fmt.Errorf("error fetching top projects: %w", err)
	}

	titles, err := catalog.LookupProjectTitles(db, idsOf(rows))
	if err != nil {
		return nil, err
	}

	return joinCounts(rows, titles), nil
}

// GetTopSkills fetches the most viewed skills in the time frame, joined
// against the skill catalog with the same drop-missing semantics.
func GetTopSkills(db *gorm.DB, params QueryParams) ([]MetricCountResult, error) {
	rows, err := topViewCounts(db, params, events.EventTypeSkillView, "skill_id")
	if err != nil {
		return nil, fmt.Errorf("error fetching top skills: %w", err)
	}

	names, err := catalog.LookupSkillNames(db, idsOf(rows))
	if err != nil {
		return nil, err
	}

	return joinCounts(rows, names), nil
}

func topViewCounts(db *gorm.DB, params QueryParams, eventType events.EventType, idColumn string) ([]idCount, error) {
	var rows []idCount

	query := fmt.Sprintf(`
    SELECT
        %s as id,
        COUNT(*) as count
    FROM events
    WHERE created_at >= ?
    AND event_type = ?
    AND is_admin = 0
    AND %s > 0
    GROUP BY %s
    ORDER BY count DESC
    LIMIT ?
    `, idColumn, idColumn, idColumn)

	err := db.Raw(query, params.TimeFrame.From.UTC(), eventType, params.Limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func idsOf(rows []idCount) []uint {
	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids
}

func joinCounts(rows []idCount, names map[uint]string) []MetricCountResult {
	results := make([]MetricCountResult, 0, len(rows))
	for _, row := range rows {
		name, ok := names[row.ID]
		if !ok {
			continue
		}
		results = append(results, MetricCountResult{Name: name, Count: row.Count})
	}
	return results
}
