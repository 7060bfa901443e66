package transit

import "time"

type ServiceAlert struct {
	PrimaryIdentifier string `bson:"primaryidentifier" json:"id"`

	ModificationDateTime time.Time `bson:"modificationdatetime" json:"-"`

	HeaderText      string `bson:"headertext" json:"header_text"`
	DescriptionText string `bson:"descriptiontext" json:"description_text"`

	Effect string `bson:"effect" json:"effect"`
	Cause  string `bson:"cause" json:"cause"`

	RouteIDs []string `bson:"routeids" json:"route_ids"`
	StopIDs  []string `bson:"stopids" json:"stop_ids"`

	UpdatedAt int64 `bson:"updatedat" json:"updated_at"`
}
