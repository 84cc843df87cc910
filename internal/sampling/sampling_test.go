package sampling

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromWindows(t *testing.T) {
	Convey("Given parallel window slices", t, func() {
		starts := []float64{0.1, 0.5, 1.2}
		ends := []float64{0.4, 1.1, 2.5}

		Convey("When building a scheme", func() {
			s, err := FromWindows("survey1_3ch", starts, ends, FieldTypeDBDT)
			So(err, ShouldBeNil)

			Convey("Then channels are named and gated in order", func() {
				So(s.Channels, ShouldHaveLength, 3)
				So(s.Channels[0].Name, ShouldEqual, "Ch1")
				So(s.Channels[2].Name, ShouldEqual, "Ch3")
				So(s.Channels[1].Start, ShouldEqual, 0.5)
				So(s.Channels[1].End, ShouldEqual, 1.1)
				So(s.Channels[0].LineWeight, ShouldEqual, DefaultLineWeight)
			})

			Convey("Then the primary gate is the first window", func() {
				So(s.PrimaryGate, ShouldResemble, Gate{Start: 0.1, End: 0.4})
			})

			Convey("Then the file name carries the channel count", func() {
				So(s.FileName(), ShouldEqual, "survey1_3ch.csv")
			})
		})

		Convey("When the slice lengths differ", func() {
			_, err := FromWindows("x", starts, ends[:2], FieldTypeB)
			So(err, ShouldEqual, ErrWindowLengths)
		})

		Convey("When the windows overlap", func() {
			_, err := FromWindows("x", []float64{0.1, 0.3}, []float64{0.4, 0.6}, FieldTypeB)
			So(errors.Cause(err), ShouldEqual, ErrChannelOrder)
		})

		Convey("When a window is inverted", func() {
			_, err := FromWindows("x", []float64{0.4}, []float64{0.1}, FieldTypeB)
			So(errors.Cause(err), ShouldEqual, ErrInvalidChannel)
		})

		Convey("When there are no windows", func() {
			_, err := FromWindows("x", nil, nil, FieldTypeB)
			So(err, ShouldEqual, ErrNoChannels)
		})
	})
}

func TestSchemeNames(t *testing.T) {
	Convey("Given the scheme naming conventions", t, func() {
		So(SchemeName("survey1", 20), ShouldEqual, "survey1_20ch")
		So(CroneSchemeName(8.333, 21), ShouldEqual, "Crone_8.3_21ch")
	})
}

func TestChannelColor(t *testing.T) {
	Convey("Given the channel color gradient", t, func() {
		Convey("Then a single channel is grey", func() {
			So(ChannelColor(0, 1), ShouldResemble, Color{R: 0.5, G: 0.5, B: 0.5})
		})

		Convey("Then the first channel is green-ish and the last red-ish", func() {
			first := ChannelColor(0, 10)
			last := ChannelColor(9, 10)
			So(first.R, ShouldAlmostEqual, 0.25)
			So(first.G, ShouldAlmostEqual, 0.75)
			So(last.R, ShouldAlmostEqual, 0.80)
			So(last.G, ShouldAlmostEqual, 0.10)
			So(first.B, ShouldEqual, 0.5)
			So(last.B, ShouldEqual, 0.5)
		})
	})
}

func TestDetectFieldType(t *testing.T) {
	Convey("Given unit strings", t, func() {
		So(DetectFieldType("pT"), ShouldEqual, FieldTypeB)
		So(DetectFieldType("nT/s"), ShouldEqual, FieldTypeB)
		So(DetectFieldType("uV"), ShouldEqual, FieldTypeDBDT)
		So(DetectFieldType("dB/dt"), ShouldEqual, FieldTypeDBDT)
		So(DetectFieldType(""), ShouldEqual, FieldTypeB)
	})

	Convey("Given MCG unit codes", t, func() {
		So(DetectFieldTypeCode(5), ShouldEqual, FieldTypeB)
		So(DetectFieldTypeCode(0), ShouldEqual, FieldTypeDBDT)
		So(DetectFieldTypeCode(9), ShouldEqual, FieldTypeDBDT)
		So(DetectFieldTypeCode(99), ShouldEqual, FieldTypeB)
	})
}

func TestCSV(t *testing.T) {
	Convey("Given a two channel scheme", t, func() {
		s, err := FromWindows("survey1_2ch", []float64{0.1, 0.5}, []float64{0.4, 1.1}, FieldTypeDBDT)
		So(err, ShouldBeNil)

		Convey("When writing the descriptor", func() {
			var buf bytes.Buffer
			So(Write(&buf, s), ShouldBeNil)
			out := buf.String()

			Convey("Then the header and channel rows are present", func() {
				So(out, ShouldContainSubstring, "Sampling Name,survey1_2ch\n")
				So(out, ShouldContainSubstring, "Primary Time Gate,0.100,0.400\n")
				So(out, ShouldContainSubstring, "Field Type,dbdt\n")
				So(out, ShouldContainSubstring, "Channel Name,ChStart,ChEnd,Red,Green,Blue,LineWt\n")
				So(out, ShouldContainSubstring, "Ch1,0.100,0.400,0.25,0.75,0.50,2\n")
				So(out, ShouldContainSubstring, "Ch2,0.500,1.100,0.80,0.10,0.50,2\n")
			})

			Convey("Then reading it back restores the scheme", func() {
				got, err := Read(strings.NewReader(out))
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "survey1_2ch")
				So(got.FieldType, ShouldEqual, FieldTypeDBDT)
				So(got.PrimaryGate, ShouldResemble, Gate{Start: 0.1, End: 0.4})
				So(got.Channels, ShouldHaveLength, 2)
				So(got.Channels[1].End, ShouldEqual, 1.1)
				So(got.Channels[1].LineWeight, ShouldEqual, 2)
			})
		})

		Convey("When writing to a file", func() {
			path := filepath.Join(t.TempDir(), s.FileName())
			So(WriteFile(path, s), ShouldBeNil)

			got, err := ReadFile(path)
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "survey1_2ch")
		})

		Convey("When a channel row is malformed", func() {
			_, err := Read(strings.NewReader("Ch1,0.1,0.4\n"))
			So(err, ShouldNotBeNil)
		})
	})
}
