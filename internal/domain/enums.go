package domain

// City is where the buyer is looking.
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

// PropertyType is the kind of property the buyer wants.
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyVilla     PropertyType = "Villa"
	PropertyPlot      PropertyType = "Plot"
	PropertyOffice    PropertyType = "Office"
	PropertyRetail    PropertyType = "Retail"
)

// RequiresBHK reports whether leads of this type must carry a bedroom count.
func (p PropertyType) RequiresBHK() bool {
	return p == PropertyApartment || p == PropertyVilla
}

// BHK is the bedroom configuration.
type BHK string

const (
	BHK1      BHK = "1"
	BHK2      BHK = "2"
	BHK3      BHK = "3"
	BHK4      BHK = "4"
	BHKStudio BHK = "Studio"
)

type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

type Timeline string

const (
	Timeline0to3m     Timeline = "0-3m"
	Timeline3to6m     Timeline = "3-6m"
	TimelineOver6m    Timeline = ">6m"
	TimelineExploring Timeline = "Exploring"
)

type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "Walk-in"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"
)

// Status is the lead's position in the sales pipeline.
type Status string

const (
	StatusNew         Status = "New"
	StatusQualified   Status = "Qualified"
	StatusContacted   Status = "Contacted"
	StatusVisited     Status = "Visited"
	StatusNegotiation Status = "Negotiation"
	StatusConverted   Status = "Converted"
	StatusDropped     Status = "Dropped"
)

// Allowed values, in display order.
var (
	Cities        = []City{CityChandigarh, CityMohali, CityZirakpur, CityPanchkula, CityOther}
	PropertyTypes = []PropertyType{PropertyApartment, PropertyVilla, PropertyPlot, PropertyOffice, PropertyRetail}
	BHKs          = []BHK{BHK1, BHK2, BHK3, BHK4, BHKStudio}
	Purposes      = []Purpose{PurposeBuy, PurposeRent}
	Timelines     = []Timeline{Timeline0to3m, Timeline3to6m, TimelineOver6m, TimelineExploring}
	Sources       = []Source{SourceWebsite, SourceReferral, SourceWalkIn, SourceCall, SourceOther}
	Statuses      = []Status{StatusNew, StatusQualified, StatusContacted, StatusVisited, StatusNegotiation, StatusConverted, StatusDropped}
)

func (c City) Valid() bool         { return contains(Cities, c) }
func (p PropertyType) Valid() bool { return contains(PropertyTypes, p) }
func (b BHK) Valid() bool          { return contains(BHKs, b) }
func (p Purpose) Valid() bool      { return contains(Purposes, p) }
func (t Timeline) Valid() bool     { return contains(Timelines, t) }
func (s Source) Valid() bool       { return contains(Sources, s) }
func (s Status) Valid() bool       { return contains(Statuses, s) }

func contains[T comparable](set []T, v T) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}
