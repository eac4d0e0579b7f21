package main

import (
	"flag"
	"log"
	"os"
	"reflect"

	"github.com/robotalks/gauge.go/pkg/telemetry/mqtt"
	"github.com/robotalks/gauge.go/pkg/telemetry/msgs"
)

var (
	mqttURL = mqtt.DefaultBrokerURL
	filter  = "#"
)

func init() {
	if val := os.Getenv("GAUGE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&filter, "topic", filter, "Topic filter, e.g. SERIAL/#.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub(filter, mqtt.Handler(func(topic string, payload []byte) {
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: [%s] %s", topic,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(), msg.String())
	}))
	if tok := q.Connect(); tok.Wait() && tok.Error() != nil {
		log.Fatalln(tok.Error())
	}
	<-(chan struct{})(nil)
}
