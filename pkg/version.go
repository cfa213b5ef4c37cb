package healthlog

// Version is the current healthlog release.
const Version = "0.3.0"
