package streamz

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCreateLicenseKey(t *testing.T) {
	Convey("CreateLicenseKey", t, func() {
		Convey("Should fix the key value for types A, R and B", func() {
			for _, keyType := range []KeyType{KeyTypeA, KeyTypeR, KeyTypeB} {
				key, err := CreateLicenseKey("https://lic/y", keyType, nil, "ignored")
				So(err, ShouldBeNil)
				So(key, ShouldEqual, "https://lic/y||"+string(keyType)+"{SSM}|")
			}
		})

		Convey("Should encode headers as a query string", func() {
			key, err := CreateLicenseKey("https://lic/y", KeyTypeR, map[string]string{
				"User-Agent": "agent x",
			}, "")
			So(err, ShouldBeNil)
			So(key, ShouldEqual, "https://lic/y|User-Agent=agent+x|R{SSM}|")
		})

		Convey("Type D", func() {
			Convey("Should reject values without the D{SSM} placeholder", func() {
				_, err := CreateLicenseKey("https://lic/y", KeyTypeD, nil, "foo")
				So(err, ShouldEqual, ErrMalformedKeyDescriptor)
			})

			Convey("Should percent-encode valid values", func() {
				key, err := CreateLicenseKey("https://lic/y", KeyTypeD, nil, "D{SSM}bar")
				So(err, ShouldBeNil)
				So(key, ShouldEqual, "https://lic/y||D%7BSSM%7Dbar|")
			})

			Convey("Should encode sub-delimiters but keep slashes literal", func() {
				key, err := CreateLicenseKey("https://lic/y", KeyTypeD, nil, "D{SSM}a=b&c+d:e@f/g h")
				So(err, ShouldBeNil)
				So(key, ShouldEqual, "https://lic/y||D%7BSSM%7Da%3Db%26c%2Bd%3Ae%40f/g%20h|")
			})
		})

		Convey("Should reject unknown key types", func() {
			_, err := CreateLicenseKey("https://lic/y", KeyType("X"), nil, "")
			So(err, ShouldEqual, ErrMalformedKeyDescriptor)
		})
	})
}
