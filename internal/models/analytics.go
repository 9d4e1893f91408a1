package models

// RunSummary aggregates the records collected for a channel in one run
type RunSummary struct {
	ChannelID     string `json:"channel_id"`
	ChannelTitle  string `json:"channel_title"`
	DateFetched   string `json:"date_fetched"`
	Fetched       int    `json:"fetched"`
	TotalViews    int64  `json:"total_views"`
	TotalLikes    int64  `json:"total_likes"`
	TotalComments int64  `json:"total_comments"`
	// Unavailable counts statistics reported as N/A across all records.
	Unavailable int `json:"unavailable"`
}

// Summarize computes the run summary for the given channel and records.
// Unavailable statistics are left out of the totals.
func Summarize(channel *ChannelSummary, dateFetched string, records []VideoRecord) RunSummary {
	s := RunSummary{
		DateFetched: dateFetched,
		Fetched:     len(records),
	}
	if channel != nil {
		s.ChannelID = channel.ChannelID
		s.ChannelTitle = channel.Title
	}

	for _, r := range records {
		for _, st := range []struct {
			stat  Stat
			total *int64
		}{
			{r.Views, &s.TotalViews},
			{r.Likes, &s.TotalLikes},
			{r.Comments, &s.TotalComments},
		} {
			if !st.stat.Valid {
				s.Unavailable++
				continue
			}
			*st.total += st.stat.Value
		}
	}

	return s
}
