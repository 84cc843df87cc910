package pemfile

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const pemFixture = `~ Crone Geophysics
<FMT> 210
TIMEBASE: 30.0
RAMP: 1500
UNITS: nT/s
$ 0.000100 0.000200 0.000433
$ 0.000767 0.001300
<P00> 0.0 0.0 0.0
<P01> 25.0 0.0 0.0
`

func TestParse(t *testing.T) {
	Convey("Given a PEM file", t, func() {
		h, err := Parse(strings.NewReader(pemFixture))
		So(err, ShouldBeNil)

		Convey("Then the header constants are parsed", func() {
			So(h.Timebase, ShouldEqual, 30.0)
			So(h.RampTime, ShouldAlmostEqual, 0.0015)
			So(h.Units, ShouldEqual, "nT/s")
		})

		Convey("Then the base frequency derives from the timebase", func() {
			So(h.BaseFrequency(), ShouldAlmostEqual, 250.0/30.0)
		})

		Convey("Then gate boundaries from all lines are collected", func() {
			So(h.GateBoundaries, ShouldHaveLength, 5)
			So(h.NumGates(), ShouldEqual, 4)

			starts, ends := h.Windows()
			So(starts[0], ShouldAlmostEqual, 0.1)
			So(ends[0], ShouldAlmostEqual, 0.2)
			So(ends[3], ShouldAlmostEqual, 1.3)
		})
	})

	Convey("Given a file without a timebase", t, func() {
		_, err := Parse(strings.NewReader("$ 0.1 0.2\n"))
		So(err, ShouldEqual, ErrNoTimebase)
	})

	Convey("Given a file without gate times", t, func() {
		_, err := Parse(strings.NewReader("TIMEBASE: 30\n"))
		So(err, ShouldEqual, ErrNoGates)
	})
}

func TestNormalize(t *testing.T) {
	uuidLineRe := regexp.MustCompile(`(?m)^<MOD>uuid=[0-9a-f]{32}$`)

	Convey("Given a PEM file with empty coordinate lines and no uuid", t, func() {
		in := pemFixture + "<P02> ~\n<P03> 50.0 0.0 0.0\ndata line\n"
		path := filepath.Join(t.TempDir(), "survey1.pem")
		So(os.WriteFile(path, []byte(in), 0644), ShouldBeNil)

		Convey("When normalizing it", func() {
			updated, err := Normalize(path)
			So(err, ShouldBeNil)
			So(updated, ShouldBeTrue)

			b, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			out := string(b)

			Convey("Then the empty coordinate lines are gone", func() {
				So(out, ShouldNotContainSubstring, "<P02> ~")
				So(out, ShouldContainSubstring, "<P03> 50.0 0.0 0.0")
			})

			Convey("Then a uuid line follows the last coordinate line", func() {
				So(uuidLineRe.MatchString(out), ShouldBeTrue)
				lines := strings.Split(out, "\n")
				var idx int
				for i, l := range lines {
					if strings.HasPrefix(l, "<MOD>uuid=") {
						idx = i
					}
				}
				So(lines[idx-1], ShouldEqual, "<P03> 50.0 0.0 0.0")
			})

			Convey("Then a second run is a no-op", func() {
				again, err := Normalize(path)
				So(err, ShouldBeNil)
				So(again, ShouldBeFalse)
			})
		})
	})
}
