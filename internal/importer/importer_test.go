package importer

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/anthonyznova/ProvusDataFormatter/internal/config"
	"github.com/anthonyznova/ProvusDataFormatter/internal/project"
	"github.com/anthonyznova/ProvusDataFormatter/internal/sampling"
	"github.com/anthonyznova/ProvusDataFormatter/internal/storage"
	"github.com/anthonyznova/ProvusDataFormatter/internal/test"
	"github.com/anthonyznova/ProvusDataFormatter/internal/waveform"
)

const temFixture = `BASEFREQ: 5.2 UNITS: nT/s TXWAVEFORM: SQUARE
/TIMESSTART(ms)= 0.087, 0.112, 0.137
/TIMESEND(ms)= 0.112, 0.137, 0.187
`

const utemFixture = `BASEFREQ: 31 UNITS: nT TXWAVEFORM: UTEM
/TIMESSTART(ms)= 0.1, 0.2
/TIMESEND(ms)= 0.2, 0.4
`

const pemFixture = `~ Crone Geophysics
TIMEBASE: 30.0
RAMP: 1500
UNITS: nT/s
$ 0.000100 0.000200 0.000433
<P00> 0.0 0.0 0.0
<P01> 25.0 0.0 0.0
`

const mcgFixture = `Base Frequency (Hz) : 25.0
Timing Mark (s) : 0.005
Units : 5
START OF CHANNEL TIMES
1 0.000087 0.000112
2 0.000112 0.000137
END OF CHANNEL TIMES
START OF STANDARD WAVEFORM
1 0.0 0.0
2 0.005 1.0
3 0.01 0.0
END OF STANDARD WAVEFORM
`

func setup(t *testing.T, files map[string]string) (string, config.Config) {
	t.Helper()
	assert := require.New(t)

	root := t.TempDir()
	for name, content := range files {
		assert.NoError(os.WriteFile(filepath.Join(root, name), []byte(content), 0644))
	}
	conf := test.GetConfig(root)
	assert.NoError(storage.Setup(conf))
	assert.NoError(Setup(conf))
	return root, conf
}

func TestImport(t *testing.T) {
	Convey("Given a project root with TEM and PEM files", t, func() {
		root, _ := setup(t, map[string]string{
			"survey1.tem": temFixture,
			"survey2.tem": utemFixture,
			"survey3.pem": pemFixture,
			"notes.txt":   "ignored",
		})

		files, err := DiscoverFiles(root)
		So(err, ShouldBeNil)
		So(files, ShouldHaveLength, 3)

		Convey("When importing them", func() {
			res, err := Import(files)
			So(err, ShouldBeNil)
			So(res.Failed, ShouldBeEmpty)
			So(res.Entries, ShouldHaveLength, 3)

			Convey("Then the TEM entry gets a square waveform and scheme", func() {
				e := res.Entries[0]
				So(e.FileType, ShouldEqual, FileTypeTEM)
				So(e.WaveformFile, ShouldEqual, "Square_5.200.csv")
				So(e.SamplingFile, ShouldEqual, "survey1_3ch.csv")
				So(e.DataStyle, ShouldEqual, DataStyleBoreholeSJV)
				So(storage.WaveformExists("Square_5.200.csv"), ShouldBeTrue)
				So(storage.SamplingExists("survey1_3ch.csv"), ShouldBeTrue)
			})

			Convey("Then the UTEM entry gets a triangle and the UTEM style", func() {
				e := res.Entries[1]
				So(e.WaveformFile, ShouldEqual, "Triangle_31.000.csv")
				So(e.DataStyle, ShouldEqual, DataStyleBoreholeUTEM)
			})

			Convey("Then the PEM entry gets the shared crone descriptors", func() {
				e := res.Entries[2]
				So(e.FileType, ShouldEqual, FileTypePEM)
				So(e.BaseFrequency, ShouldAlmostEqual, 250.0/30.0)
				So(e.WaveformFile, ShouldEqual, "Crone_8.3Hz.csv")
				So(e.SamplingFile, ShouldEqual, "Crone_8.3_2ch.csv")
				So(e.DataStyle, ShouldEqual, DataStyleCrone)

				wf, err := waveform.ReadFile(storage.WaveformPath(e.WaveformFile))
				So(err, ShouldBeNil)
				So(wf.Name, ShouldEqual, "Crone")
				So(wf.ZeroTime, ShouldEqual, 0.25)

				s, err := sampling.ReadFile(storage.SamplingPath(e.SamplingFile))
				So(err, ShouldBeNil)
				So(s.Channels, ShouldHaveLength, 2)
				So(s.Channels[0].Start, ShouldAlmostEqual, 0.1)
			})

			Convey("Then a second import reuses the descriptors", func() {
				res2, err := Import(files)
				So(err, ShouldBeNil)
				So(res2.Failed, ShouldBeEmpty)
				So(res2.Entries, ShouldHaveLength, 3)
			})
		})
	})

	Convey("Given a TEM file without time windows", t, func() {
		root, _ := setup(t, map[string]string{
			"broken.tem": "BASEFREQ: 30\nUNITS: pT\n",
		})

		Convey("Then the import records the failure", func() {
			res, err := Import([]string{filepath.Join(root, "broken.tem")})
			So(err, ShouldBeNil)
			So(res.Entries, ShouldBeEmpty)
			So(res.Failed, ShouldHaveLength, 1)
		})
	})

	Convey("Given a configured half-sine default shape", t, func() {
		root, conf := setup(t, map[string]string{
			"survey1.tem": temFixture,
		})
		conf.Formatter.DefaultShape = "half-sine"
		conf.Formatter.HalfSinePoints = 5
		So(Setup(conf), ShouldBeNil)

		Convey("Then the generated waveform carries the configured point count", func() {
			res, err := Import([]string{filepath.Join(root, "survey1.tem")})
			So(err, ShouldBeNil)
			So(res.Entries, ShouldHaveLength, 1)
			So(res.Entries[0].WaveformFile, ShouldEqual, "HalfSine_5.200.csv")

			wf, err := waveform.ReadFile(storage.WaveformPath("HalfSine_5.200.csv"))
			So(err, ShouldBeNil)
			So(wf.Points, ShouldHaveLength, 5)
		})
	})

	Convey("Given a review override", t, func() {
		root, conf := setup(t, map[string]string{
			"survey1.tem": temFixture,
		})
		conf.Formatter.Overrides = []config.Override{
			{Pattern: "survey*.tem", Waveform: "Custom_5.200.csv", DataStyle: DataStyleCrone},
		}
		So(Setup(conf), ShouldBeNil)

		Convey("Then matching entries are overridden", func() {
			res, err := Import([]string{filepath.Join(root, "survey1.tem")})
			So(err, ShouldBeNil)
			So(res.Entries, ShouldHaveLength, 1)
			So(res.Entries[0].WaveformFile, ShouldEqual, "Custom_5.200.csv")
			So(res.Entries[0].SamplingFile, ShouldEqual, "survey1_3ch.csv")
			So(res.Entries[0].DataStyle, ShouldEqual, DataStyleCrone)
		})
	})
}

func TestImportMCG(t *testing.T) {
	Convey("Given a project root with an MCG file", t, func() {
		root, _ := setup(t, map[string]string{
			"Survey4.mcg": mcgFixture,
		})

		Convey("When converting it", func() {
			So(ImportMCG(filepath.Join(root, "Survey4.mcg")), ShouldBeNil)

			Convey("Then the waveform is scaled to the half-period", func() {
				So(storage.WaveformExists("survey4_25.000.csv"), ShouldBeTrue)
				wf, err := waveform.ReadFile(storage.WaveformPath("survey4_25.000.csv"))
				So(err, ShouldBeNil)
				So(wf.Points[len(wf.Points)-1].Time, ShouldAlmostEqual, 0.5)
				So(wf.ZeroTime, ShouldAlmostEqual, 0.25)
			})

			Convey("Then the channel times become a ms scheme", func() {
				So(storage.SamplingExists("survey4_2ch.csv"), ShouldBeTrue)
				s, err := sampling.ReadFile(storage.SamplingPath("survey4_2ch.csv"))
				So(err, ShouldBeNil)
				So(s.FieldType, ShouldEqual, sampling.FieldTypeB)
				So(s.Channels[0].Start, ShouldAlmostEqual, 0.087)
				So(s.Channels[1].End, ShouldAlmostEqual, 0.137)
			})
		})
	})
}

func TestUpdate(t *testing.T) {
	Convey("Given imported TEM and PEM files", t, func() {
		root, _ := setup(t, map[string]string{
			"survey1.tem": temFixture,
			"survey3.pem": pemFixture,
		})

		files, err := DiscoverFiles(root)
		So(err, ShouldBeNil)
		res, err := Import(files)
		So(err, ShouldBeNil)

		Convey("When updating the headers", func() {
			s := UpdateHeaders(res.Entries)
			So(s.Errors, ShouldEqual, 0)
			So(s.Updated, ShouldEqual, 2)

			b, err := os.ReadFile(filepath.Join(root, "survey1.tem"))
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, "WAVEFORM:Square_5.200 SAMPLING:survey1_3ch")

			b, err = os.ReadFile(filepath.Join(root, "survey3.pem"))
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, "<MOD>uuid=")

			Convey("Then a second run skips everything", func() {
				s2 := UpdateHeaders(res.Entries)
				So(s2.Updated, ShouldEqual, 0)
				So(s2.Skipped, ShouldEqual, 2)
				So(s2.Errors, ShouldEqual, 0)
			})
		})

		Convey("When a data file vanished before the header update", func() {
			So(os.Remove(filepath.Join(root, "survey1.tem")), ShouldBeNil)

			Convey("Then the failure is counted", func() {
				s := UpdateHeaders(res.Entries)
				So(s.Errors, ShouldEqual, 1)
				So(s.Updated, ShouldEqual, 1)
			})
		})

		Convey("When updating the project file", func() {
			So(UpdateProject(res.Entries), ShouldBeNil)

			d, err := project.Load(root)
			So(err, ShouldBeNil)
			So(d.Exists(), ShouldBeTrue)
			So(d.DataFiles, ShouldResemble, []project.DataFileRef{
				{Path: "survey1.tem", Style: DataStyleBoreholeSJV},
				{Path: "survey3.pem", Style: DataStyleCrone},
			})
			So(d.WaveformFiles, ShouldContain, "Provus_Options/Waveforms/Crone_8.3Hz.csv")
			So(d.SamplingFiles, ShouldContain, "Provus_Options/Channel_Sampling_Schemes/survey1_3ch.csv")

			Convey("Then a second run changes nothing", func() {
				So(UpdateProject(res.Entries), ShouldBeNil)
				d2, err := project.Load(root)
				So(err, ShouldBeNil)
				So(d2.DataFiles, ShouldHaveLength, 2)
				So(d2.WaveformFiles, ShouldResemble, d.WaveformFiles)
			})
		})
	})
}
