package constants

// This is set during compilation. See build_and_package.sh in the ops repo
var Version = "latest"
