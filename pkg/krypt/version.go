package krypt

const Version = "0.1.0"
