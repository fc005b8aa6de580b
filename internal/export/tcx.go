package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

const (
	TCXMediaType = "application/vnd.garmin.tcx+xml"
	TCXFilename  = "toporider_course.tcx"

	tcxNamespace  = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	tcxTimeLayout = "2006-01-02T15:04:05Z"
)

// decimal renders a float with a fixed number of fraction digits; prec -1
// keeps the shortest exact form.
type decimal struct {
	value float64
	prec  int
}

func (d decimal) MarshalText() ([]byte, error) {
	return strconv.AppendFloat(nil, d.value, 'f', d.prec, 64), nil
}

type tcxDatabase struct {
	XMLName xml.Name    `xml:"TrainingCenterDatabase"`
	XMLNS   string      `xml:"xmlns,attr"`
	Courses []tcxCourse `xml:"Courses>Course"`
}

type tcxCourse struct {
	Name        string          `xml:"Name"`
	Lap         tcxLap          `xml:"Lap"`
	Trackpoints []tcxTrackpoint `xml:"Track>Trackpoint"`
}

type tcxLap struct {
	TotalTimeSeconds decimal     `xml:"TotalTimeSeconds"`
	DistanceMeters   decimal     `xml:"DistanceMeters"`
	BeginPosition    tcxPosition `xml:"BeginPosition"`
	EndPosition      tcxPosition `xml:"EndPosition"`
	Intensity        string      `xml:"Intensity"`
}

type tcxPosition struct {
	LatitudeDegrees  decimal `xml:"LatitudeDegrees"`
	LongitudeDegrees decimal `xml:"LongitudeDegrees"`
}

type tcxTrackpoint struct {
	Time           string      `xml:"Time"`
	Position       tcxPosition `xml:"Position"`
	AltitudeMeters decimal     `xml:"AltitudeMeters"`
	DistanceMeters decimal     `xml:"DistanceMeters"`
}

func position(lat, lng float64) tcxPosition {
	return tcxPosition{
		LatitudeDegrees:  decimal{lat, -1},
		LongitudeDegrees: decimal{lng, -1},
	}
}

func (c Course) tcx() tcxDatabase {
	tc := tcxCourse{
		Name: c.Name,
		Lap: tcxLap{
			TotalTimeSeconds: decimal{c.TotalTimeSeconds, 1},
			DistanceMeters:   decimal{c.DistanceMeters, 1},
			BeginPosition:    position(c.Begin.Lat, c.Begin.Lng),
			EndPosition:      position(c.End.Lat, c.End.Lng),
			Intensity:        "Active",
		},
		Trackpoints: make([]tcxTrackpoint, len(c.Trackpoints)),
	}
	for i, tp := range c.Trackpoints {
		tc.Trackpoints[i] = tcxTrackpoint{
			Time:           tp.Time.UTC().Format(tcxTimeLayout),
			Position:       position(tp.Position.Lat, tp.Position.Lng),
			AltitudeMeters: decimal{tp.AltitudeMeters, 2},
			DistanceMeters: decimal{tp.DistanceMeters, 2},
		}
	}
	return tcxDatabase{XMLNS: tcxNamespace, Courses: []tcxCourse{tc}}
}

// WriteTCX writes the course as a Garmin Training Center course document.
func (c Course) WriteTCX(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(c.tcx()); err != nil {
		return fmt.Errorf("failed to encode TCX: %w", err)
	}
	return nil
}

