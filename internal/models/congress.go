package models

// LatestAction is the most recent recorded action on a bill, amendment or nomination
type LatestAction struct {
	ActionDate string `json:"actionDate,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Sponsor identifies a member who sponsored or cosponsored a measure
type Sponsor struct {
	BioguideID string `json:"bioguideId"`
	FullName   string `json:"fullName"`
	Party      string `json:"party,omitempty"`
	State      string `json:"state,omitempty"`
	District   int    `json:"district,omitempty"`
}

// PolicyArea is the CRS-assigned subject of a bill
type PolicyArea struct {
	Name string `json:"name"`
}

// Bill represents a bill or resolution
type Bill struct {
	Congress       int          `json:"congress"`
	Type           string       `json:"type"`
	Number         string       `json:"number"`
	Title          string       `json:"title"`
	OriginChamber  string       `json:"originChamber,omitempty"`
	IntroducedDate string       `json:"introducedDate,omitempty"`
	UpdateDate     string       `json:"updateDate,omitempty"`
	LatestAction   LatestAction `json:"latestAction"`
	PolicyArea     *PolicyArea  `json:"policyArea,omitempty"`
	Sponsors       []Sponsor    `json:"sponsors,omitempty"`
	URL            string       `json:"url,omitempty"`
}

// BillSummary is one CRS summary version of a bill
type BillSummary struct {
	ActionDate  string `json:"actionDate"`
	ActionDesc  string `json:"actionDesc"`
	Text        string `json:"text"`
	UpdateDate  string `json:"updateDate,omitempty"`
	VersionCode string `json:"versionCode,omitempty"`
}

// BillAction is one step in a bill's legislative history
type BillAction struct {
	ActionDate string `json:"actionDate"`
	Text       string `json:"text"`
	Type       string `json:"type,omitempty"`
	ActionCode string `json:"actionCode,omitempty"`
}

// Cosponsor is a member cosponsoring a bill
type Cosponsor struct {
	Sponsor
	SponsorshipDate     string `json:"sponsorshipDate,omitempty"`
	IsOriginalCosponsor bool   `json:"isOriginalCosponsor"`
}

// RelationshipDetail describes how two bills are related
type RelationshipDetail struct {
	Type         string `json:"type"`
	IdentifiedBy string `json:"identifiedBy"`
}

// RelatedBill is a bill linked to another bill
type RelatedBill struct {
	Congress            int                  `json:"congress"`
	Type                string               `json:"type"`
	Number              int                  `json:"number"`
	Title               string               `json:"title"`
	LatestAction        LatestAction         `json:"latestAction"`
	RelationshipDetails []RelationshipDetail `json:"relationshipDetails,omitempty"`
}

// Term is a period of service in one chamber
type Term struct {
	Chamber   string `json:"chamber"`
	Congress  int    `json:"congress,omitempty"`
	StartYear int    `json:"startYear"`
	EndYear   int    `json:"endYear,omitempty"`
	StateCode string `json:"stateCode,omitempty"`
}

// Member represents a member of Congress
type Member struct {
	BioguideID    string `json:"bioguideId"`
	Name          string `json:"name"`
	Party         string `json:"partyName,omitempty"`
	State         string `json:"state"`
	District      int    `json:"district,omitempty"`
	Chamber       string `json:"chamber,omitempty"`
	CurrentMember bool   `json:"currentMember"`
	BirthYear     string `json:"birthYear,omitempty"`
	Website       string `json:"officialWebsiteUrl,omitempty"`
	Terms         []Term `json:"terms,omitempty"`
	UpdateDate    string `json:"updateDate,omitempty"`
	URL           string `json:"url,omitempty"`
}

// SponsoredBill is a measure sponsored by a member
type SponsoredBill struct {
	Congress       int          `json:"congress"`
	Type           string       `json:"type"`
	Number         string       `json:"number"`
	Title          string       `json:"title"`
	IntroducedDate string       `json:"introducedDate,omitempty"`
	LatestAction   LatestAction `json:"latestAction"`
	PolicyArea     *PolicyArea  `json:"policyArea,omitempty"`
}

// Subcommittee is a child of a standing committee
type Subcommittee struct {
	Name       string `json:"name"`
	SystemCode string `json:"systemCode"`
}

// Committee represents a congressional committee
type Committee struct {
	Chamber       string         `json:"chamber"`
	Name          string         `json:"name"`
	SystemCode    string         `json:"systemCode"`
	Type          string         `json:"committeeTypeCode,omitempty"`
	IsCurrent     bool           `json:"isCurrent,omitempty"`
	Subcommittees []Subcommittee `json:"subcommittees,omitempty"`
	BillCount     int            `json:"billCount,omitempty"`
	URL           string         `json:"url,omitempty"`
}

// Amendment represents an amendment to a measure
type Amendment struct {
	Congress     int          `json:"congress"`
	Type         string       `json:"type"`
	Number       string       `json:"number"`
	Description  string       `json:"description,omitempty"`
	Purpose      string       `json:"purpose,omitempty"`
	LatestAction LatestAction `json:"latestAction"`
	UpdateDate   string       `json:"updateDate,omitempty"`
}

// RecordIssue is one daily issue of the Congressional Record
type RecordIssue struct {
	Congress    int    `json:"congress"`
	Volume      int    `json:"volume"`
	Issue       string `json:"issue"`
	Session     int    `json:"session"`
	PublishDate string `json:"publishDate"`
	PDFURL      string `json:"pdfUrl,omitempty"`
}

// Nomination represents a presidential nomination sent to the Senate
type Nomination struct {
	Citation     string       `json:"citation"`
	Congress     int          `json:"congress"`
	Description  string       `json:"description"`
	Organization string       `json:"organization,omitempty"`
	ReceivedDate string       `json:"receivedDate,omitempty"`
	LatestAction LatestAction `json:"latestAction"`
}

// Hearing represents a published committee hearing
type Hearing struct {
	Chamber      string `json:"chamber"`
	Congress     int    `json:"congress"`
	JacketNumber int    `json:"jacketNumber"`
	Title        string `json:"title,omitempty"`
	Date         string `json:"date,omitempty"`
	UpdateDate   string `json:"updateDate,omitempty"`
	URL          string `json:"url,omitempty"`
}
