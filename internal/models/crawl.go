package models

// Resumen de una corrida del crawler (lo devuelve POST /admin/crawl y
// lo imprime el CLI al final).
type CrawlSummary struct {
	RunID           string `json:"runId"`
	InsertedUsers   int    `json:"insertedUsers"`
	SkippedUsers    int    `json:"skippedUsers"`
	FailedUsers     int    `json:"failedUsers"`
	DiscoveredUsers int    `json:"discoveredUsers"`
	ProcessedUsers  int    `json:"processedUsers"`
	TotalUsers      int64  `json:"totalUsers"`
	ElapsedMs       int64  `json:"elapsedMs"`
}

// Parámetros de una corrida (el body de POST /admin/crawl; el CLI arma
// lo mismo desde flags/env).
type CrawlParams struct {
	Seeds           []string `json:"seeds"`
	TargetUsers     int      `json:"targetUsers"`
	MinRatings      int      `json:"minRatings"`
	DiscoveryFanOut int      `json:"discoveryFanOut"`
	DiscoveryPages  int      `json:"discoveryPages"`
	RecentUserPages int      `json:"recentUserPages"`
}
