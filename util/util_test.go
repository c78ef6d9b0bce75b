package util

import (
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "profile", "profiles"), ShouldEqual, "1 profile")
		So(Quantify(2, "profile", "profiles"), ShouldEqual, "2 profiles")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`name="state" value="(?P<state>[^"]+)`)

		Convey("Should extract named groups", func() {
			groups := ReGroups(re, `<input type="hidden" name="state" value="abc123">`)
			So(groups["state"], ShouldEqual, "abc123")
		})

		Convey("Should return empty map on no match", func() {
			groups := ReGroups(re, `<input type="hidden" name="other">`)
			So(groups, ShouldBeEmpty)
		})
	})
}
