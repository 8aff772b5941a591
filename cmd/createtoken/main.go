package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"marktime.com/marktime/web/middlewares"
)

func main() {
	deviceID := flag.String("device", "kiosk-1", "device id to embed in the token")
	ttl := flag.Duration("ttl", 365*24*time.Hour, "token lifetime")
	flag.Parse()

	secret, err := base64.StdEncoding.DecodeString(os.Getenv("MARKTIME_SIGNING_SECRET"))
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	token, err := middlewares.CreateJWT(secret, *deviceID, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
