package aggregation

import (
	"sort"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

// TopicFrequencies counts topics per company. Companies are visited in the
// order given; within a company topics are ordered by descending frequency,
// ties by first appearance in records.
func TopicFrequencies(records []types.EnrichedRecord, companies []string) []types.TopicFrequency {
	type topicCount struct {
		topic string
		count int
	}

	byCompany := make(map[string][]*topicCount)
	index := make(map[string]map[string]*topicCount)
	for _, rec := range records {
		topics, ok := index[rec.Company]
		if !ok {
			topics = make(map[string]*topicCount)
			index[rec.Company] = topics
		}
		tc, ok := topics[rec.Topic]
		if !ok {
			tc = &topicCount{topic: rec.Topic}
			topics[rec.Topic] = tc
			byCompany[rec.Company] = append(byCompany[rec.Company], tc)
		}
		tc.count++
	}

	var stats []types.TopicFrequency
	for _, company := range companies {
		counts := byCompany[company]
		sort.SliceStable(counts, func(i, j int) bool {
			return counts[i].count > counts[j].count
		})
		for _, tc := range counts {
			stats = append(stats, types.TopicFrequency{
				Company:   company,
				Topic:     tc.topic,
				Frequency: tc.count,
			})
		}
	}
	return stats
}

// BuildReport bundles sorted records with their company list and topic stats.
func BuildReport(records []types.EnrichedRecord, companies []string) types.Report {
	return types.Report{
		Records:    records,
		Companies:  companies,
		TopicStats: TopicFrequencies(records, companies),
	}
}
