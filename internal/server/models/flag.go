package models

import "time"

// Flag is one risk-flag row. Several rows may share a FlagID, one per
// flagged subject node.
type Flag struct {
	ID         int64
	FlagID     string
	SubjectID  string
	RuleID     string
	Score      int
	Parameter  string
	CreateDate time.Time
	CreateBy   string
}

// FlagGroup is the API shape of a flag: distinct flag metadata with the
// list of subject node ids it applies to.
type FlagGroup struct {
	FlagID     string    `json:"flag_id"`
	RuleID     string    `json:"rule_id"`
	Score      int       `json:"score"`
	Parameter  string    `json:"parameter"`
	CreateDate time.Time `json:"create_date"`
	CreateBy   string    `json:"create_by"`
	SubjectIDs []string  `json:"subject_ids"`
}
