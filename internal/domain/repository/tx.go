package repository

// Tx agrupa los repositorios atados a una misma transacción de base de datos.
// Lo entrega el TxRunner de infraestructura a los casos de uso.
type Tx struct {
	Balances   BalanceRepository
	Movements  MovementRepository
	Ledger     LedgerRepository
	Variants   VariantRepository
	Warehouses WarehouseRepository
	Purchasing PurchasingRepository
	Sales      SalesRepository
	POS        POSRepository
	Restaurant RestaurantRepository
}
