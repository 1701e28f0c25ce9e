package types

import "time"

// Chapter is a chapter marker.
//
// Chapters come from a Nero chpl box or from a QuickTime text track that
// another track references with tref/chap:
//
//	for _, c := range info.Chapters {
//	    fmt.Printf("[%d] %s: %s - %s\n", c.Index, c.Title, c.StartTime, c.EndTime)
//	}
type Chapter struct {
	Index     int           `json:"index"`
	Title     string        `json:"title"`
	StartTime time.Duration `json:"start_time"`
	EndTime   time.Duration `json:"end_time"`
}

// CloseChapters sets each chapter's end to the start of the next one, and
// the last chapter's end to total when it is known.
func CloseChapters(chapters []Chapter, total time.Duration) {
	for i := range chapters {
		chapters[i].Index = i + 1
		switch {
		case i+1 < len(chapters):
			chapters[i].EndTime = chapters[i+1].StartTime
		case total > chapters[i].StartTime:
			chapters[i].EndTime = total
		default:
			chapters[i].EndTime = chapters[i].StartTime
		}
	}
}
