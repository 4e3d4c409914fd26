package models

// ExifData is the structured metadata record extracted from an uploaded
// image. Every field is optional - a photo with no usable metadata carries
// a nil *ExifData instead. Only these declared fields are ever populated;
// unknown keys coming out of the extractor are dropped.
type ExifData struct {
	Make     *string `json:"make,omitempty"`
	Model    *string `json:"model,omitempty"`
	Software *string `json:"software,omitempty"`

	Width       *uint16 `json:"width,omitempty"`
	Height      *uint16 `json:"height,omitempty"`
	Orientation *int    `json:"orientation,omitempty"`

	TakenAt    *int64 `json:"taken_at,omitempty"` // unix seconds, UTC
	TimeOffset *int   `json:"time_offset,omitempty"`

	ExposureTime         *float64 `json:"exposure_time,omitempty"` // seconds
	FNumber              *float64 `json:"f_number,omitempty"`
	ISO                  *int     `json:"iso,omitempty"`
	FocalLength          *float64 `json:"focal_length,omitempty"` // mm
	Flash                *int     `json:"flash,omitempty"`
	WhiteBalance         *int     `json:"white_balance,omitempty"`
	MeteringMode         *int     `json:"metering_mode,omitempty"`
	ExposureProgram      *int     `json:"exposure_program,omitempty"`
	ExposureCompensation *float64 `json:"exposure_compensation,omitempty"`

	GpsLat  *float64 `json:"gps_lat,omitempty"`
	GpsLong *float64 `json:"gps_long,omitempty"`
	GpsAlt  *float64 `json:"gps_alt,omitempty"`
}

// IsEmpty reports whether nothing at all was extracted.
func (e *ExifData) IsEmpty() bool {
	if e == nil {
		return true
	}
	return *e == ExifData{}
}
