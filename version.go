package main

var version = "0.2.0"

func versionString() string {
	return "proposalsync " + version
}
