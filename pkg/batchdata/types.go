package batchdata

// SearchRequest is the property-search request body. The query is a
// "<city>, <state>" string; filters narrow by property type, lot size and
// estimated value. Skip/Take page through results.
type SearchRequest struct {
	SearchCriteria SearchCriteria `json:"searchCriteria"`
	Options        SearchOptions  `json:"options"`
}

// SearchCriteria holds the provider search filters.
type SearchCriteria struct {
	Query        string       `json:"query"`
	PropertyType string       `json:"propertyType,omitempty"`
	LotSize      *RangeFilter `json:"lotSize,omitempty"`
	EstimatedVal *RangeFilter `json:"estimatedValue,omitempty"`
}

// RangeFilter is a min/max numeric filter.
type RangeFilter struct {
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

// SearchOptions controls paging and inline enrichment.
type SearchOptions struct {
	Skip      int  `json:"skip"`
	Take      int  `json:"take"`
	SkipTrace bool `json:"skipTrace,omitempty"`
}

// SearchResponse is the provider search response envelope. Every nested
// field is optional; missing sub-objects decode to zero values.
type SearchResponse struct {
	Status  Status        `json:"status"`
	Results SearchResults `json:"results"`
}

// Status is the provider status envelope.
type Status struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

// SearchResults holds the result meta and property list.
type SearchResults struct {
	Meta       ResultMeta `json:"meta"`
	Properties []Property `json:"properties"`
}

// ResultMeta reports result counts for the query.
type ResultMeta struct {
	Total       int `json:"total"`
	ResultCount int `json:"resultCount"`
}

// Property is one provider property record. Field naming shifted across
// provider versions, so several attributes carry legacy fallbacks that the
// normalizer coalesces.
type Property struct {
	ID        string     `json:"_id"`
	Address   *PropAddr  `json:"address"`
	Owner     *Owner     `json:"owner"`
	Building  *Building  `json:"building"`
	Lot       *Lot       `json:"lot"`
	Valuation *Valuation `json:"valuation"`
	Sale      *Sale      `json:"sale"`
	QuickList *QuickList `json:"quickLists"`
}

// PropAddr is the property's situs address.
type PropAddr struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Owner is the owner sub-object.
type Owner struct {
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Building holds structure attributes.
type Building struct {
	TotalBuildingAreaSquareFeet float64 `json:"totalBuildingAreaSquareFeet"`
	LivingAreaSquareFeet        float64 `json:"livingAreaSquareFeet"` // legacy name
	BedroomCount                int     `json:"bedroomCount"`
	BathroomCount               float64 `json:"bathroomCount"`
	YearBuilt                   int     `json:"yearBuilt"`
	StoryCount                  int     `json:"storyCount"`
}

// Lot holds parcel attributes.
type Lot struct {
	LotSizeSquareFeet float64 `json:"lotSizeSquareFeet"`
	SquareFeet        float64 `json:"squareFeet"` // legacy name
	LotSizeAcres      float64 `json:"lotSizeAcres"`
}

// Valuation holds estimated value and equity.
type Valuation struct {
	EstimatedValue float64 `json:"estimatedValue"`
	Equity         float64 `json:"equityCurrentEstimatedBalance"`
}

// Sale holds the last arms-length sale.
type Sale struct {
	LastSaleDate  string  `json:"lastSaleDate"` // ISO date
	LastSalePrice float64 `json:"lastSalePrice"`
}

// QuickList carries provider boolean flags; only the corner-lot indicator
// is consumed downstream.
type QuickList struct {
	CornerLot bool `json:"cornerLot"`
}

// SkipTraceRequest is the bulk skip-trace request. Results correlate to
// requests positionally; RequestID is carried so responses that echo it can
// be matched by ID instead.
type SkipTraceRequest struct {
	Requests []SkipTraceItem `json:"requests"`
}

// SkipTraceItem identifies one property to trace.
type SkipTraceItem struct {
	RequestID       string    `json:"requestId"`
	PropertyAddress TraceAddr `json:"propertyAddress"`
}

// TraceAddr is the address sent for skip-tracing.
type TraceAddr struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// SkipTraceResponse is the bulk skip-trace response envelope.
type SkipTraceResponse struct {
	Status  Status           `json:"status"`
	Results SkipTraceResults `json:"results"`
}

// SkipTraceResults holds the ordered person list.
type SkipTraceResults struct {
	Persons []Person `json:"persons"`
}

// Person is one skip-trace result. Persons[i] corresponds to Requests[i].
type Person struct {
	RequestID    string        `json:"requestId,omitempty"`
	Name         *PersonName   `json:"name"`
	PhoneNumbers []PhoneNumber `json:"phoneNumbers"`
	Emails       []Email       `json:"emails"`
}

// PersonName is the traced person's parsed name.
type PersonName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// PhoneNumber is one traced phone candidate.
type PhoneNumber struct {
	Number    string  `json:"number"`
	Type      string  `json:"type"`
	DNC       bool    `json:"dnc"`
	Reachable bool    `json:"reachable"`
	Score     float64 `json:"score"`
}

// Email is one traced email address.
type Email struct {
	Email string `json:"email"`
}
