package export

import (
	"bytes"
	"time"
)

type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

func (s *Service) TCX(points []TrackPoint) ([]byte, error) {
	course, err := BuildCourse(points, s.now())
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := course.WriteTCX(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) GPX(points []TrackPoint) ([]byte, error) {
	course, err := BuildCourse(points, s.now())
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := course.WriteGPX(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
