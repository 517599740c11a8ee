package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/appliance"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/config"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

type profile struct {
	name  string
	watts float64
}

var profiles = []profile{
	{"AC", 2200},
	{"Heater", 2500},
	{"Washing Machine", 900},
	{"Fridge", 150},
	{"Dishwasher", 1800},
	{"TV", 120},
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()
	rng := appliance.NewRand(config.RandomSeed())

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker()).SetClientID("energy-optimizer-simulator")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	topic := config.MQTTTopic()
	day := time.Now()
	for i := 0; i < 100; i++ {
		p := profiles[rng.IntN(len(profiles))]
		r := domain.ApplianceInput{
			Name:  p.name,
			Hours: 0.5 + rng.Float64()*8,
			Power: p.watts * (0.9 + rng.Float64()*0.2),
			Date:  day.Format("2006-01-02"),
			Day:   day.Format("Mon"),
			Time:  fmt.Sprintf("%02d:%02d", rng.IntN(24), rng.IntN(60)),
		}
		payload, _ := json.Marshal(r)
		token := client.Publish(topic, 0, false, payload)
		token.Wait()
		if i%10 == 9 {
			day = day.AddDate(0, 0, 1)
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Str("topic", topic).Msg("simulation done")
}
