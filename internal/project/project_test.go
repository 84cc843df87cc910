package project

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestProject(t *testing.T) {
	Convey("Given a root directory without a project file", t, func() {
		root := t.TempDir()

		d, err := Load(root)
		So(err, ShouldBeNil)

		Convey("Then the descriptor targets <rootname>_project.ppf", func() {
			So(d.Exists(), ShouldBeFalse)
			So(d.Path, ShouldEqual, filepath.Join(root, filepath.Base(root)+"_project.ppf"))
			So(d.ProjectName, ShouldEqual, filepath.Base(root))
		})

		Convey("When merging references and saving", func() {
			d.MergeDataFile("survey1.tem", "DataFileStyleBoreholeSJV")
			d.MergeDataFile("survey2.pem", "DataFileStyleCrone")
			d.MergeWaveformFile("Provus_Options/Waveforms/Square_5.200.csv")
			d.MergeSamplingFile("Provus_Options/Channel_Sampling_Schemes/survey1_3ch.csv")
			So(d.Save(), ShouldBeNil)

			b, err := os.ReadFile(d.Path)
			So(err, ShouldBeNil)
			out := string(b)

			Convey("Then the managed sections are written", func() {
				So(out, ShouldContainSubstring, "[Project Settings]\n")
				So(out, ShouldContainSubstring, "Project Name=\""+filepath.Base(root)+"\"\n")
				So(out, ShouldContainSubstring, "[Project Data Files]\nsurvey1.tem,DataFileStyleBoreholeSJV\nsurvey2.pem,DataFileStyleCrone\n")
				So(out, ShouldContainSubstring, "[Project Waveform Files]\nProvus_Options/Waveforms/Square_5.200.csv\n")
				So(out, ShouldContainSubstring, "[Project Sampling Files]\nProvus_Options/Channel_Sampling_Schemes/survey1_3ch.csv\n")
			})

			Convey("Then reloading restores the references", func() {
				d2, err := Load(root)
				So(err, ShouldBeNil)
				So(d2.Exists(), ShouldBeTrue)
				So(d2.DataFiles, ShouldResemble, []DataFileRef{
					{Path: "survey1.tem", Style: "DataFileStyleBoreholeSJV"},
					{Path: "survey2.pem", Style: "DataFileStyleCrone"},
				})
				So(d2.WaveformFiles, ShouldHaveLength, 1)
				So(d2.SamplingFiles, ShouldHaveLength, 1)
			})

			Convey("Then re-merging the same path updates in place", func() {
				d.MergeDataFile("survey1.tem", "DataFileStyleBoreholeUTEM")
				So(d.DataFiles, ShouldHaveLength, 2)
				So(d.DataFiles[0].Style, ShouldEqual, "DataFileStyleBoreholeUTEM")

				d.MergeWaveformFile("Provus_Options/Waveforms/Square_5.200.csv")
				So(d.WaveformFiles, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a project file with foreign sections and settings", t, func() {
		root := t.TempDir()
		in := "[Project Settings]\nProject Name=\"demo\"\nUnits=metric\n\n" +
			"[Project Data Files]\nsurvey1.tem,DataFileStyleBoreholeSJV\n\n" +
			"[Display Settings]\ntheme=dark\n\n"
		path := filepath.Join(root, "demo.ppf")
		So(os.WriteFile(path, []byte(in), 0644), ShouldBeNil)

		d, err := Load(root)
		So(err, ShouldBeNil)
		So(d.ProjectName, ShouldEqual, "demo")

		Convey("When saving after a merge", func() {
			d.MergeDataFile("survey2.pem", "DataFileStyleCrone")
			So(d.Save(), ShouldBeNil)

			b, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			out := string(b)

			Convey("Then foreign content survives", func() {
				So(out, ShouldContainSubstring, "Units=metric\n")
				So(out, ShouldContainSubstring, "[Display Settings]\ntheme=dark\n")
				So(out, ShouldContainSubstring, "survey1.tem,DataFileStyleBoreholeSJV\n")
				So(out, ShouldContainSubstring, "survey2.pem,DataFileStyleCrone\n")
			})
		})
	})
}
