package model

// Package model contains typed records derived from Cloudflare Stream
// response envelopes. The raw envelopes stay schemaless; only values the
// application computes or must persist on the caller side get a type here.
