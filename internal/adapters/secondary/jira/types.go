package jira

import "encoding/json"

// Wire types for the Jira Cloud REST API v3. Only the fields the report
// needs are decoded; issue fields arrive as raw JSON because the story
// point estimate lives in an instance-specific custom field.

type searchResponse struct {
	StartAt    int        `json:"startAt"`
	MaxResults int        `json:"maxResults"`
	Total      int        `json:"total"`
	Issues     []apiIssue `json:"issues"`
}

type apiIssue struct {
	Key       string          `json:"key"`
	Fields    json.RawMessage `json:"fields"`
	Changelog *apiChangelog   `json:"changelog"`
}

type apiFields struct {
	Summary  string          `json:"summary"`
	Status   apiStatus       `json:"status"`
	Assignee *apiUser        `json:"assignee"`
	Created  string          `json:"created"`
	Updated  string          `json:"updated"`
	Comment  *apiCommentPage `json:"comment"`
}

type apiStatus struct {
	Name string `json:"name"`
}

type apiUser struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

type apiCommentPage struct {
	Comments []apiComment `json:"comments"`
}

type apiComment struct {
	Author  apiUser `json:"author"`
	Created string  `json:"created"`
}

type apiChangelog struct {
	Histories []apiHistory `json:"histories"`
}

type apiHistory struct {
	Created string           `json:"created"`
	Items   []apiHistoryItem `json:"items"`
}

type apiHistoryItem struct {
	Field    string `json:"field"`
	ToString string `json:"toString"`
}

type apiProject struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
