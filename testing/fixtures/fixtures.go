package fixtures

import "github.com/capbac/go-capbac/principal/secp256k1/signer"

// Alice owns the fixture devices and issues their root tokens.
var Alice, _ = signer.Parse("2f1e7b7a11c4f9d0b6c1a9e4d2f3b5a6978c0d1e2f3a4b5c6d7e8f9a0b1c2d3e")

var Bob, _ = signer.Parse("5a8d3c2b1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f1a0b9c8d7e6f5a4b")

var Mallory, _ = signer.Parse("7c0ffee1deadbeef0123456789abcdef0123456789abcdef0123456789abcdef")

var Service, _ = signer.Parse("13579bdf02468ace13579bdf02468ace13579bdf02468ace13579bdf02468ace")

// Device is the URI of the fixture device.
const Device = "coap://sensor.local/time"
