package cmd

import (
	"github.com/spf13/cobra"

	"payflow/config"
	"payflow/logger"
	"payflow/mq/mq"
	"payflow/web"
)

func serverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the checkout API server",
		Long:  `This command starts the web server for the application.`,
		Run: func(cmd *cobra.Command, args []string) {
			isDev := cmd.Flags().Lookup("dev").Value.String() == "true"
			port := cmd.Flags().Lookup("port").Value.String()
			mqMode := cmd.Flags().Lookup("mq").Value.String()

			config.LoadConfig()
			logger.InitLogger(config.Cfg.LogLevel)
			if port == "" {
				port = config.Cfg.Port
			}

			web.Serve(web.ServiceConfig{
				IsDev:  isDev,
				Port:   port,
				MqMode: mq.Mode(mqMode),
			})
		},
	}

	cmd.Flags().Bool("dev", true, "Run with in-memory backends")
	cmd.Flags().String("port", "8080", "Port to run the web server on")
	cmd.Flags().String("mq", "go_chan", "Message queue mode (go_chan, rabbitmq, gcp_pub_sub)")

	return cmd
}
