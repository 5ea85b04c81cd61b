package types

type ResourceGraphQuery struct {
	Name  string
	Query string
}

type GraphVirtualMachine struct {
	ID                   string
	Name                 string
	Location             string
	VMSize               string
	OSType               string
	OSDiskStorageAccount string
}
