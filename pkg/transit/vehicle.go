package transit

// VehicleSnapshot is the best known current state of a single trip. Exactly
// one row survives per trip id; every ingestion cycle fully overwrites it.
type VehicleSnapshot struct {
	TripID        string  `gorm:"column:trip_id;primaryKey" json:"trip_id"`
	RouteID       string  `gorm:"column:route_id;index" json:"route_id"`
	Lat           float64 `gorm:"column:lat" json:"lat"`
	Lon           float64 `gorm:"column:lon" json:"lon"`
	Timestamp     int64   `gorm:"column:timestamp;index" json:"timestamp"`
	StopName      string  `gorm:"column:stop_name" json:"stop_name"`
	CurrentStatus string  `gorm:"column:current_status" json:"current_status"`
	Direction     string  `gorm:"column:direction" json:"direction"`
	Destination   string  `gorm:"column:destination" json:"destination"`
	Consist       string  `gorm:"column:consist" json:"consist"`
}

func (VehicleSnapshot) TableName() string {
	return "vehicle_positions"
}

// StatusInTransitTo is assigned to positions inferred from trip update
// predictions, where no vehicle reported status is available.
const StatusInTransitTo = "IN_TRANSIT_TO"

const UnknownDestination = "Unknown"
