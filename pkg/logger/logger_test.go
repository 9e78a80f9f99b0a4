package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)
		So(Sync(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("loader"), ShouldNotBeNil)
		})
	})

	Convey("Given a nil writer", t, func() {
		Convey("Then initialization fails", func() {
			So(InitWithWriter(nil), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing into a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "snapshot loaded",
				String("source", "fixture.json"),
				Int("riders", 3),
				Bool("reload", false),
				Duration("took", 5*time.Millisecond),
				Error(errors.New("boom")),
			)

			Convey("Then the record carries message and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "snapshot loaded")
				So(out, ShouldContainSubstring, "riders=3")
				So(out, ShouldContainSubstring, "reload=false")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging through a named logger", func() {
			Named("worker").Warn(ctx, "reload rejected")

			Convey("Then the component is attached", func() {
				So(buf.String(), ShouldContainSubstring, "component=worker")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden message")

			Convey("Then info records are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden message")
			})
		})
	})
}

func TestLoggerFormat(t *testing.T) {
	Convey("Given a logger writing json", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat(" JSON ")), ShouldBeNil)
		Named("service").Info(context.Background(), "snapshot published", Int("generation", 2))

		Convey("Then records are json objects", func() {
			out := buf.String()
			So(out, ShouldStartWith, "{")
			So(out, ShouldContainSubstring, `"msg":"snapshot published"`)
			So(out, ShouldContainSubstring, `"component":"service"`)
			So(out, ShouldContainSubstring, `"generation":2`)
		})
	})

	Convey("Given an unknown format", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("xml")), ShouldNotBeNil)
		So(Init(WithWriter(&buf)), ShouldBeNil)
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}
