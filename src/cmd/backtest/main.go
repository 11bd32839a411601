package main

import (
	"fmt"
	"os"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/neurallayer/roboquant-sub007/src/backtester/engine"
	"github.com/neurallayer/roboquant-sub007/src/backtester/models"
	"github.com/neurallayer/roboquant-sub007/src/backtester/pricing"
	"github.com/neurallayer/roboquant-sub007/src/eventmodels"
	"github.com/neurallayer/roboquant-sub007/src/eventpubsub"
	"github.com/neurallayer/roboquant-sub007/src/feed"
	"github.com/neurallayer/roboquant-sub007/src/logger"
	"github.com/neurallayer/roboquant-sub007/src/utils"
)

type feedConfig struct {
	Symbol string `yaml:"symbol"`
	File   string `yaml:"file"`
}

type strategyConfig struct {
	FastPeriods int     `yaml:"fast"`
	SlowPeriods int     `yaml:"slow"`
	Size        float64 `yaml:"size"`
}

type config struct {
	LogLevel       string         `yaml:"log_level"`
	InitialDeposit float64        `yaml:"initial_deposit"`
	Currency       string         `yaml:"currency"`
	SpreadBips     float64        `yaml:"spread_bips"`
	FeeRate        float64        `yaml:"fee_rate"`
	RetentionDays  int            `yaml:"retention_days"`
	Feeds          []feedConfig   `yaml:"feeds"`
	Strategy       strategyConfig `yaml:"strategy"`
}

func loadConfig(filename string) (*config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &config{
		LogLevel:       "info",
		InitialDeposit: 100_000,
		Currency:       "USD",
		RetentionDays:  365,
		Strategy:       strategyConfig{FastPeriods: 5, SlowPeriods: 20, Size: 10},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

func buildBroker(cfg *config) (*engine.SimBroker, error) {
	currency := eventmodels.NewCurrency(cfg.Currency)

	var pricingEngine pricing.Engine = pricing.NewNoCostEngine()
	if cfg.SpreadBips > 0 {
		pricingEngine = pricing.NewSpreadEngine(cfg.SpreadBips)
	}

	var feeModel pricing.FeeModel = pricing.NoFeeModel{}
	if cfg.FeeRate > 0 {
		model, err := pricing.NewPercentageFeeModel(cfg.FeeRate)
		if err != nil {
			return nil, err
		}
		feeModel = model
	}

	return engine.NewSimBroker(engine.Config{
		InitialDeposit: eventmodels.NewAmount(currency, cfg.InitialDeposit),
		PricingEngine:  pricingEngine,
		FeeModel:       feeModel,
		AccountModel:   engine.NewCashAccountModel(0),
		Retention:      time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	}), nil
}

// smaCross is a minimal demo signal: long when the fast moving average
// crosses above the slow one, flat when it crosses back below. Strategy
// logic stays outside the execution core, it only reads account snapshots.
type smaCross struct {
	cfg    strategyConfig
	closes map[eventmodels.Asset][]float64
}

func (s *smaCross) next(broker *engine.SimBroker, account *models.Account, event *eventmodels.Event) []models.Order {
	var orders []models.Order

	for asset, item := range event.Prices {
		closes := append(s.closes[asset], item.GetPrice())
		if len(closes) > s.cfg.SlowPeriods {
			closes = closes[len(closes)-s.cfg.SlowPeriods:]
		}
		s.closes[asset] = closes

		if len(closes) < s.cfg.SlowPeriods {
			continue
		}

		fast, err := stats.Mean(closes[len(closes)-s.cfg.FastPeriods:])
		if err != nil {
			continue
		}

		slow, err := stats.Mean(closes)
		if err != nil {
			continue
		}

		position := account.Position(asset)

		if fast > slow && position.Size.IsZero() {
			order, err := models.NewMarketOrder(broker.NextOrderID(), asset, models.NewSize(s.cfg.Size), nil)
			if err != nil {
				log.Warnf("smaCross: %v", err)
				continue
			}
			orders = append(orders, order)
		} else if fast < slow && position.Size.IsPositive() {
			order, err := models.NewMarketOrder(broker.NextOrderID(), asset, position.Size.Neg(), nil)
			if err != nil {
				log.Warnf("smaCross: %v", err)
				continue
			}
			orders = append(orders, order)
		}
	}

	return orders
}

func printReport(broker *engine.SimBroker, account *models.Account, initialDeposit float64) error {
	positions := tablewriter.NewWriter(os.Stdout)
	positions.SetHeader([]string{"Asset", "Size", "Avg Price", "Mkt Price", "Unrealized PNL"})
	for _, position := range account.Positions {
		positions.Append([]string{
			position.Asset.String(),
			position.Size.String(),
			fmt.Sprintf("%.2f", position.AvgPrice),
			fmt.Sprintf("%.2f", position.MktPrice),
			fmt.Sprintf("%.2f", position.UnrealizedPNL().Value),
		})
	}
	positions.Render()

	trades := tablewriter.NewWriter(os.Stdout)
	trades.SetHeader([]string{"Time", "Asset", "Size", "Price", "Fee", "Realized PNL"})
	for _, trade := range account.Trades {
		trades.Append([]string{
			trade.Time.Format(time.RFC3339),
			trade.Asset.String(),
			trade.Size.String(),
			fmt.Sprintf("%.2f", trade.Price),
			fmt.Sprintf("%.2f", trade.Fee),
			fmt.Sprintf("%.2f", trade.RealizedPNL),
		})
	}
	trades.Render()

	curve := broker.EquityCurve()
	if len(curve) == 0 {
		return nil
	}

	equities := make([]float64, len(curve))
	for i, point := range curve {
		equities[i] = point.Equity
	}

	maxEquity, err := stats.Max(equities)
	if err != nil {
		return err
	}

	minEquity, err := stats.Min(equities)
	if err != nil {
		return err
	}

	final := equities[len(equities)-1]

	// equity points are appended in tick order
	runStart := curve[0].Time
	runEnd := curve[len(curve)-1].Time

	log.Infof("run window: %s -> %s", runStart.Format(time.RFC3339), runEnd.Format(time.RFC3339))
	log.Infof("equity: final %.2f (min %.2f, max %.2f), return %.2f%%", final, minEquity, maxEquity, (final-initialDeposit)/initialDeposit*100)

	return nil
}

func run(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	logger.Init(cfg.LogLevel)
	utils.InitEnvironmentVariables()
	eventpubsub.Init()

	files := make(map[eventmodels.Asset]string, len(cfg.Feeds))
	for _, feedCfg := range cfg.Feeds {
		files[eventmodels.NewStock(feedCfg.Symbol)] = feedCfg.File
	}

	eventFeed, err := feed.NewCSVFeed(files)
	if err != nil {
		return err
	}

	broker, err := buildBroker(cfg)
	if err != nil {
		return err
	}

	strategy := &smaCross{
		cfg:    cfg.Strategy,
		closes: make(map[eventmodels.Asset][]float64),
	}

	var orders []models.Order
	var account *models.Account

	for event := eventFeed.Next(); event != nil; event = eventFeed.Next() {
		account = broker.Place(orders, event)
		orders = strategy.next(broker, account, event)
	}

	if account == nil {
		return fmt.Errorf("feed produced no events")
	}

	return printReport(broker, account, cfg.InitialDeposit)
}

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run a backtest against CSV candle data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configFile)
		},
	}

	rootCmd.Flags().StringVar(&configFile, "config", "backtest.yaml", "path to the yaml config file")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
