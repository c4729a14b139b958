package tools

import (
	"strings"

	"github.com/legisai/legisai/internal/service"
)

type searchBillsArgs struct {
	Query    string `json:"query" validate:"required" jsonschema:"description=Keywords to match against bill titles and latest actions"`
	Congress int    `json:"congress,omitempty" validate:"omitempty,min=1,max=200" jsonschema:"description=Congress number such as 119"`
	BillType string `json:"bill_type,omitempty" validate:"omitempty,oneof=hr s hjres sjres hconres sconres hres sres" jsonschema:"description=Bill type such as hr or s"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of results (default 20)"`
}

func (a *searchBillsArgs) normalize() { a.BillType = strings.ToLower(a.BillType) }

// billArgs address a single bill
type billArgs struct {
	Congress   int    `json:"congress" validate:"required,min=1,max=200" jsonschema:"description=Congress number such as 119"`
	BillType   string `json:"bill_type" validate:"required,oneof=hr s hjres sjres hconres sconres hres sres" jsonschema:"description=Bill type: hr s hjres sjres hconres sconres hres or sres"`
	BillNumber int    `json:"bill_number" validate:"required,min=1" jsonschema:"description=Bill number such as 1 for H.R. 1"`
}

func (a *billArgs) normalize() { a.BillType = strings.ToLower(a.BillType) }

func (a *billArgs) ref() service.BillRef {
	return service.BillRef{Congress: a.Congress, Type: a.BillType, Number: a.BillNumber}
}

type billListArgs struct {
	Congress   int    `json:"congress" validate:"required,min=1,max=200" jsonschema:"description=Congress number such as 119"`
	BillType   string `json:"bill_type" validate:"required,oneof=hr s hjres sjres hconres sconres hres sres" jsonschema:"description=Bill type: hr s hjres sjres hconres sconres hres or sres"`
	BillNumber int    `json:"bill_number" validate:"required,min=1" jsonschema:"description=Bill number such as 1 for H.R. 1"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of results (default 20)"`
}

func (a *billListArgs) normalize() { a.BillType = strings.ToLower(a.BillType) }

func (a *billListArgs) ref() service.BillRef {
	return service.BillRef{Congress: a.Congress, Type: a.BillType, Number: a.BillNumber}
}

type searchMembersArgs struct {
	Query       string `json:"query" validate:"required" jsonschema:"description=Name state or party to look for"`
	Congress    int    `json:"congress,omitempty" validate:"omitempty,min=1,max=200" jsonschema:"description=Only members serving in this congress"`
	Chamber     string `json:"chamber,omitempty" validate:"omitempty,oneof=house senate" jsonschema:"description=house or senate"`
	CurrentOnly bool   `json:"current_only,omitempty" jsonschema:"description=Only currently serving members"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of results (default 20)"`
}

func (a *searchMembersArgs) normalize() { a.Chamber = strings.ToLower(a.Chamber) }

type memberArgs struct {
	BioguideID string `json:"bioguide_id" validate:"required,len=7,alphanum" jsonschema:"description=Bioguide identifier such as C000127"`
}

func (a *memberArgs) normalize() { a.BioguideID = strings.ToUpper(strings.TrimSpace(a.BioguideID)) }

type sponsoredArgs struct {
	BioguideID string `json:"bioguide_id" validate:"required,len=7,alphanum" jsonschema:"description=Bioguide identifier such as C000127"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of results (default 20)"`
}

func (a *sponsoredArgs) normalize() { a.BioguideID = strings.ToUpper(strings.TrimSpace(a.BioguideID)) }

type stateMembersArgs struct {
	State       string `json:"state" validate:"required,len=2,alpha" jsonschema:"description=Two-letter state code or full state name"`
	District    int    `json:"district,omitempty" validate:"omitempty,min=1,max=53" jsonschema:"description=Congressional district number"`
	CurrentOnly *bool  `json:"current_only,omitempty" jsonschema:"description=Only currently serving members (default true)"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of results (default 20)"`
}

func (a *stateMembersArgs) normalize() { a.State = normalizeState(a.State) }

type senatorsArgs struct {
	State       string `json:"state" validate:"required,len=2,alpha" jsonschema:"description=Two-letter state code or full state name"`
	CurrentOnly *bool  `json:"current_only,omitempty" jsonschema:"description=Only currently serving senators (default true)"`
}

func (a *senatorsArgs) normalize() { a.State = normalizeState(a.State) }

type representativesArgs struct {
	State       string `json:"state" validate:"required,len=2,alpha" jsonschema:"description=Two-letter state code or full state name"`
	District    int    `json:"district,omitempty" validate:"omitempty,min=1,max=53" jsonschema:"description=Congressional district number"`
	CurrentOnly *bool  `json:"current_only,omitempty" jsonschema:"description=Only currently serving representatives (default true)"`
}

func (a *representativesArgs) normalize() { a.State = normalizeState(a.State) }

type searchCommitteesArgs struct {
	Query    string `json:"query" validate:"required" jsonschema:"description=Keywords to match against committee names"`
	Chamber  string `json:"chamber,omitempty" validate:"omitempty,oneof=house senate joint" jsonschema:"description=house senate or joint"`
	Congress int    `json:"congress,omitempty" validate:"omitempty,min=1,max=200" jsonschema:"description=Congress number such as 119"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of results (default 20)"`
}

func (a *searchCommitteesArgs) normalize() { a.Chamber = strings.ToLower(a.Chamber) }

type committeeArgs struct {
	Chamber       string `json:"chamber" validate:"required,oneof=house senate joint" jsonschema:"description=house senate or joint"`
	CommitteeCode string `json:"committee_code" validate:"required,alphanum,min=4,max=8" jsonschema:"description=Committee system code such as hsag00"`
}

func (a *committeeArgs) normalize() {
	a.Chamber = strings.ToLower(a.Chamber)
	a.CommitteeCode = strings.ToLower(strings.TrimSpace(a.CommitteeCode))
}

type searchAmendmentsArgs struct {
	Query         string `json:"query" validate:"required" jsonschema:"description=Keywords to match against amendment descriptions and purposes"`
	Congress      int    `json:"congress,omitempty" validate:"omitempty,min=1,max=200" jsonschema:"description=Congress number such as 119"`
	AmendmentType string `json:"amendment_type,omitempty" validate:"omitempty,oneof=hamdt samdt suamdt" jsonschema:"description=hamdt samdt or suamdt"`
	Limit         int    `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of results (default 20)"`
}

func (a *searchAmendmentsArgs) normalize() { a.AmendmentType = strings.ToLower(a.AmendmentType) }

type recordArgs struct {
	Year  int `json:"year,omitempty" validate:"omitempty,min=1873,max=2100" jsonschema:"description=Publication year"`
	Month int `json:"month,omitempty" validate:"omitempty,min=1,max=12" jsonschema:"description=Publication month 1-12"`
	Day   int `json:"day,omitempty" validate:"omitempty,min=1,max=31" jsonschema:"description=Publication day of month"`
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of issues (default 20)"`
}

type searchNominationsArgs struct {
	Query    string `json:"query" validate:"required" jsonschema:"description=Keywords to match against nominee descriptions and organizations"`
	Congress int    `json:"congress,omitempty" validate:"omitempty,min=1,max=200" jsonschema:"description=Congress number such as 119"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=250" jsonschema:"description=Maximum number of results (default 20)"`
}

type searchHearingsArgs struct {
	Query    string `json:"query,omitempty" jsonschema:"description=Keywords to match against hearing titles"`
	Congress int    `json:"congress,omitempty" validate:"omitempty,min=1,max=200" jsonschema:"description=Congress number such as 119"`
	Chamber  string `json:"chamber,omitempty" validate:"omitempty,oneof=house senate joint" jsonschema:"description=house senate or joint"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=50" jsonschema:"description=Maximum number of results (default 20)"`
}

func (a *searchHearingsArgs) normalize() { a.Chamber = strings.ToLower(a.Chamber) }

// normalizeState turns "Washington" into "WA"; unknown names are left for
// validation to reject.
func normalizeState(s string) string {
	if code, ok := service.StateCode(s); ok {
		return code
	}
	return strings.TrimSpace(s)
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
