package processing

import (
	"log"
	"os/exec"
	"photoframer/models"
	"strconv"
	"strings"
	"time"

	"github.com/zsefvlol/timezonemapper"
)

// exiftool is asked for one tab-separated row with "-" for missing
// values. Order here must match the indexes in parseExifRow.
var exifFields = []string{
	"-make",
	"-model",
	"-software",
	"-imagewidth",
	"-imageheight",
	"-orientation",
	"-datetimeoriginal",
	"-createdate",
	"-offsettimeoriginal",
	"-exposuretime",
	"-fnumber",
	"-iso",
	"-focallength",
	"-flash",
	"-whitebalance",
	"-meteringmode",
	"-exposureprogram",
	"-exposurecompensation",
	"-gpslatitude",
	"-gpslongitude",
	"-gpsaltitude",
}

// ExtractMetadata parses embedded metadata out of the file at fullPath.
// Best effort only: a missing exiftool binary, a corrupt file or a short
// row all yield nil - metadata problems never fail an upload.
func ExtractMetadata(fullPath string) *models.ExifData {
	args := append([]string{"-n", "-T"}, exifFields...)
	cmd := exec.Command("exiftool", append(args, fullPath)...)
	output, err := cmd.Output()
	if err != nil {
		log.Printf("Metadata extraction failed for %s: %v", fullPath, err)
		return nil
	}
	return parseExifRow(strings.Split(strings.Trim(string(output), "\n\t\r "), "\t"))
}

func parseExifRow(row []string) *models.ExifData {
	if len(row) != len(exifFields) {
		return nil
	}
	exif := models.ExifData{
		Make:                 strPtr(row[0]),
		Model:                strPtr(row[1]),
		Software:             strPtr(row[2]),
		Width:                uint16Ptr(row[3]),
		Height:               uint16Ptr(row[4]),
		Orientation:          intPtr(row[5]),
		TimeOffset:           timeOffsetPtr(row[8]),
		ExposureTime:         floatPtr(row[9]),
		FNumber:              floatPtr(row[10]),
		ISO:                  intPtr(row[11]),
		FocalLength:          floatPtr(row[12]),
		Flash:                intPtr(row[13]),
		WhiteBalance:         intPtr(row[14]),
		MeteringMode:         intPtr(row[15]),
		ExposureProgram:      intPtr(row[16]),
		ExposureCompensation: floatPtr(row[17]),
		GpsLat:               floatPtr(row[18]),
		GpsLong:              floatPtr(row[19]),
		GpsAlt:               floatPtr(row[20]),
	}
	// Still no time offset, but GPS coordinates are there? Derive the
	// zone from the location.
	if exif.TimeOffset == nil && exif.GpsLat != nil && exif.GpsLong != nil {
		zone, err := time.LoadLocation(timezonemapper.LatLngToTimezoneString(*exif.GpsLat, *exif.GpsLong))
		if err == nil && zone != nil {
			_, offset := time.Now().In(zone).Zone()
			exif.TimeOffset = &offset
		}
	}
	// DateTimeOriginal, falling back to CreateDate
	taken := row[6]
	if taken == "-" {
		taken = row[7]
	}
	if taken != "-" {
		if t, err := time.Parse("2006:01:02 15:04:05", taken); err == nil {
			at := t.Unix()
			if exif.TimeOffset != nil {
				// The tag is local wall-clock time; shift to UTC
				at -= int64(*exif.TimeOffset)
			}
			exif.TakenAt = &at
		}
	}
	if exif.IsEmpty() {
		return nil
	}
	return &exif
}

// timeOffsetPtr returns the offset in seconds (or nil), input format is "+09:00".
// The sign comes from the prefix, not the hour value - "-00:30" is negative
// even though its hour part is zero.
func timeOffsetPtr(s string) *int {
	sign := 1
	if strings.HasPrefix(s, "-") {
		sign = -1
	}
	parts := strings.SplitN(strings.TrimLeft(s, "+-"), ":", 2)
	if len(parts) != 2 {
		return nil
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return nil
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil || mins < 0 {
		return nil
	}
	result := sign * (hours*3600 + mins*60)
	return &result
}

func strPtr(in string) *string {
	if in == "-" || in == "" {
		return nil
	}
	return &in
}

func floatPtr(in string) *float64 {
	f, err := strconv.ParseFloat(in, 64)
	if err != nil {
		return nil
	}
	return &f
}

func intPtr(in string) *int {
	i, err := strconv.Atoi(in)
	if err != nil {
		// exiftool prints some numeric tags fractionally (e.g. "0.0")
		f, ferr := strconv.ParseFloat(in, 64)
		if ferr != nil {
			return nil
		}
		i = int(f)
	}
	return &i
}

func uint16Ptr(in string) *uint16 {
	i, err := strconv.ParseUint(in, 10, 16)
	if err != nil {
		return nil
	}
	u := uint16(i)
	return &u
}
