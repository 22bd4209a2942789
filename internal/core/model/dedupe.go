package model

// Cluster is a group of existing records that are duplicates of each other.
type Cluster struct {
	RecordIDs       []string `json:"record_ids"`
	SuggestedMaster string   `json:"suggested_master"`
	Similarity      float64  `json:"similarity"` // weakest duplicate edge inside the cluster
}

// ReviewVerdict is an advisory second opinion on a borderline assessment.
type ReviewVerdict struct {
	RecordID   string  `json:"record_id"`
	SameEntity bool    `json:"same_entity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}
