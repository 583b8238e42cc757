package main

import (
	"github.com/sirupsen/logrus"
)

var pkgLogger *logrus.Entry

func logger() *logrus.Entry {
	if pkgLogger == nil {
		pkgLogger = logrus.WithField("package", "main")
	}

	return pkgLogger
}
