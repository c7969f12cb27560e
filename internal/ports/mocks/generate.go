//go:generate mockgen -source=../logger.go                 -destination=./mock_logger.go                 -package=mocks
//go:generate mockgen -source=../gateway_client.go         -destination=./mock_gateway_client.go         -package=mocks
//go:generate mockgen -source=../context_builder.go        -destination=./mock_context_builder.go        -package=mocks
//go:generate mockgen -source=../instance_context_cache.go -destination=./mock_instance_context_cache.go -package=mocks
//go:generate mockgen -source=../ad_renderer.go            -destination=./mock_ad_renderer.go            -package=mocks
//go:generate mockgen -source=../ad_contents_service.go    -destination=./mock_ad_contents_service.go    -package=mocks
//go:generate mockgen -source=../validator.go              -destination=./mock_validator.go              -package=mocks
//go:generate mockgen -source=../background_worker.go      -destination=./mock_background_worker.go      -package=mocks

package mocks
