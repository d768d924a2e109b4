package domain

// DataPlan позиция каталога тарифов. Price в песевах.
type DataPlan struct {
	ID    string
	Name  string
	Price int64
}

// planCatalog захардкоженный каталог тарифов по сетям. Каталог обязан совпадать
// со структурой на клиенте, но цена для списания всегда берется отсюда,
// присланная клиентом сумма носит справочный характер.
var planCatalog = map[string][]DataPlan{
	"MTN": {
		{ID: "1", Name: "1GB", Price: 480},
		{ID: "2", Name: "2GB", Price: 960},
		{ID: "3", Name: "3GB", Price: 1420},
		{ID: "4", Name: "4GB", Price: 2000},
		{ID: "5", Name: "5GB", Price: 2400},
		{ID: "10", Name: "10GB", Price: 4400},
	},
	"AirtelTigo": {
		{ID: "1", Name: "1GB", Price: 400},
		{ID: "2", Name: "2GB", Price: 800},
		{ID: "5", Name: "5GB", Price: 2000},
		{ID: "10", Name: "10GB", Price: 4200},
		{ID: "20", Name: "20GB", Price: 8210},
	},
	"Telecel": {
		{ID: "5", Name: "5GB", Price: 2300},
		{ID: "10", Name: "10GB", Price: 4300},
		{ID: "20", Name: "20GB", Price: 8300},
		{ID: "50", Name: "50GB", Price: 19500},
	},
}

// FindPlan ищет тариф по сети и id. Второе значение false если сеть или тариф неизвестны.
func FindPlan(network, planID string) (*DataPlan, bool) {
	plans, ok := planCatalog[network]
	if !ok {
		return nil, false
	}
	for i := range plans {
		if plans[i].ID == planID {
			return &plans[i], true
		}
	}
	return nil, false
}

// KnownNetwork сообщает, присутствует ли сеть в каталоге.
func KnownNetwork(network string) bool {
	_, ok := planCatalog[network]
	return ok
}

// Networks возвращает список сетей каталога.
func Networks() []string {
	networks := make([]string, 0, len(planCatalog))
	for network := range planCatalog {
		networks = append(networks, network)
	}
	return networks
}
